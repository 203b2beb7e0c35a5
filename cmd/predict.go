package cmd

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"forex-trading/internal/dto"
)

var (
	predictPair      string
	predictTimeframe string
	predictModel     string
)

var predictCmd = &cobra.Command{
	Use:   "predict",
	Short: "Generate a single on-demand prediction",
	Run:   runPredict,
}

func init() {
	predictCmd.Flags().StringVar(&predictPair, "pair", "EURUSD", "currency pair")
	predictCmd.Flags().StringVar(&predictTimeframe, "timeframe", "H1", "bar timeframe (M1..D1)")
	predictCmd.Flags().StringVar(&predictModel, "model", "cnn", "model type (cnn, rnn, tcn)")
}

func runPredict(cmd *cobra.Command, args []string) {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	appDep, err := NewAppDependency()
	if err != nil {
		log.Fatalf("Failed to create app dependency: %v", err)
	}
	defer appDep.Close()

	signalOut, err := appDep.services.PredictionService.Predict(ctx, dto.PredictionRequest{
		CurrencyPair: strings.ToUpper(predictPair),
		Timeframe:    predictTimeframe,
		ModelType:    predictModel,
	})
	if err != nil {
		log.Fatalf("Prediction failed: %v", err)
	}

	fmt.Printf("Pair:            %s\n", strings.ToUpper(predictPair))
	fmt.Printf("Model:           %s %s\n", signalOut.ModelType, signalOut.ModelVersion)
	fmt.Printf("Predicted price: %.5f\n", signalOut.PredictedPrice)
	fmt.Printf("Price change:    %+.5f\n", signalOut.PriceChange)
	fmt.Printf("Direction:       %s\n", signalOut.Direction)
	fmt.Printf("Confidence:      %.2f\n", signalOut.Confidence)
	fmt.Printf("Generated at:    %s\n", signalOut.GeneratedAt.Format("2006-01-02 15:04:05 MST"))
}
