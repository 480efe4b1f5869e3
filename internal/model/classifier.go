package model

import (
	"fmt"
	"image"
	"sync"

	ort "github.com/yalue/onnxruntime_go"
)

// Classifier owns one ONNX session and its input/output tensors. It is loaded
// once per process and reused for every prediction; Predict calls are
// serialised because the session writes into shared tensors.
type Classifier struct {
	mu           sync.Mutex
	session      *ort.AdvancedSession
	Metadata     Metadata
	inputTensor  *ort.Tensor[float32]
	outputTensor *ort.Tensor[float32]
	ownsEnv      bool
}

// Load initialises the ONNX runtime (if needed) and opens the model at
// modelPath. libraryPath, when set, points at the onnxruntime shared library.
func Load(modelPath, libraryPath string, meta Metadata) (*Classifier, error) {
	if err := meta.Validate(); err != nil {
		return nil, fmt.Errorf("invalid metadata: %w", err)
	}

	ownsEnv := false
	if !ort.IsInitialized() {
		if libraryPath != "" {
			ort.SetSharedLibraryPath(libraryPath)
		}
		if err := ort.InitializeEnvironment(); err != nil {
			return nil, fmt.Errorf("failed to initialize ONNX environment: %w", err)
		}
		ownsEnv = true
	}

	c := &Classifier{Metadata: meta, ownsEnv: ownsEnv}

	inputTensor, err := ort.NewEmptyTensor[float32](ort.NewShape(meta.InputShape...))
	if err != nil {
		c.Close()
		return nil, fmt.Errorf("failed to create input tensor: %w", err)
	}
	c.inputTensor = inputTensor

	outputTensor, err := ort.NewEmptyTensor[float32](ort.NewShape(meta.OutputShape...))
	if err != nil {
		c.Close()
		return nil, fmt.Errorf("failed to create output tensor: %w", err)
	}
	c.outputTensor = outputTensor

	session, err := ort.NewAdvancedSession(modelPath,
		[]string{meta.InputName}, []string{meta.OutputName},
		[]ort.ArbitraryTensor{inputTensor}, []ort.ArbitraryTensor{outputTensor},
		nil)
	if err != nil {
		c.Close()
		return nil, fmt.Errorf("failed to create ONNX session: %w", err)
	}
	c.session = session

	return c, nil
}

// Predict runs one forward pass over a preprocessed input and returns a copy
// of the output scores.
func (c *Classifier) Predict(inputData []float32) ([]float32, error) {
	if expected := c.Metadata.InputSize(); len(inputData) != expected {
		return nil, fmt.Errorf("expected %d input values, got %d", expected, len(inputData))
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	copy(c.inputTensor.GetData(), inputData)

	if err := c.session.Run(); err != nil {
		return nil, fmt.Errorf("inference failed: %w", err)
	}

	outputData := c.outputTensor.GetData()
	scores := make([]float32, len(outputData))
	copy(scores, outputData)
	return scores, nil
}

// Classify preprocesses img, runs it through the model and picks the label.
func (c *Classifier) Classify(img image.Image) (Prediction, error) {
	scores, err := c.Predict(Preprocess(img, c.Metadata))
	if err != nil {
		return Prediction{}, err
	}
	return Label(c.Metadata.Classes, scores), nil
}

func (c *Classifier) Close() {
	if c.session != nil {
		c.session.Destroy()
	}
	if c.inputTensor != nil {
		c.inputTensor.Destroy()
	}
	if c.outputTensor != nil {
		c.outputTensor.Destroy()
	}
	if c.ownsEnv {
		ort.DestroyEnvironment()
	}
}
