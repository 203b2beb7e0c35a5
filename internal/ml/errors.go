package ml

import "fmt"

// InvalidModelTypeError reports an unrecognized model identifier. It is
// raised before any replay starts and is fatal to the request.
type InvalidModelTypeError struct {
	ModelType string
}

func (e *InvalidModelTypeError) Error() string {
	return fmt.Sprintf("unknown model type: %s", e.ModelType)
}

// InferenceError reports a failed prediction at one decision point, such
// as a window whose shape does not match the model's expected dimensions.
// Callers recover from it locally; it never aborts a whole run.
type InferenceError struct {
	ModelType string
	Reason    string
}

func (e *InferenceError) Error() string {
	return fmt.Sprintf("model %s inference failed: %s", e.ModelType, e.Reason)
}
