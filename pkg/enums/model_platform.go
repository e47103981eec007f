package enums

// ModelPlatform is the runtime format of a stored ML model weight file.
type ModelPlatform string

const (
	ModelPlatformCoreML  ModelPlatform = "coreml"
	ModelPlatformONNX    ModelPlatform = "onnx"
	ModelPlatformPyTorch ModelPlatform = "pt"
)

// String implements fmt.Stringer.
func (p ModelPlatform) String() string {
	return string(p)
}

// IsValid reports whether the value is a known ModelPlatform.
func (p ModelPlatform) IsValid() bool {
	switch p {
	case ModelPlatformCoreML, ModelPlatformONNX, ModelPlatformPyTorch:
		return true
	}
	return false
}
