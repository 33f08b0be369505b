//go:build !cgo
// +build !cgo

package embedding

import "errors"

// ONNXEmbedder stub when built without CGO; see onnx.go for the real one.
type ONNXEmbedder struct{}

// NewONNXEmbedder fails when built without CGO (ONNX Runtime unavailable).
func NewONNXEmbedder(_ string, _, _, _ int) (*ONNXEmbedder, error) {
	return nil, errors.New("ONNX embedder requires CGO; build with CGO_ENABLED=1 and onnxruntime")
}
