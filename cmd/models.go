package cmd

import (
	"fmt"
	"log"
	"os"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
)

var modelsCmd = &cobra.Command{
	Use:   "models",
	Short: "List the available prediction models",
	Run:   runModels,
}

func runModels(cmd *cobra.Command, args []string) {
	appDep, err := NewAppDependency()
	if err != nil {
		log.Fatalf("Failed to create app dependency: %v", err)
	}
	defer appDep.Close()

	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"ID", "Type", "Version", "Input Shape", "Description"})

	for _, info := range appDep.services.PredictionService.ListModels() {
		table.Append([]string{
			info.ModelID,
			info.ModelType,
			info.Version,
			fmt.Sprint(info.InputShape),
			info.Description,
		})
	}
	table.Render()
}
