package model

// Unknown is reported when the winning output index has no label.
const Unknown = "Unknown"

const DefaultImageSize = 224

// DefaultLabels is the label set of the published leaf disease model, in
// output order.
var DefaultLabels = []string{
	"Apple___Black_rot", "Apple___Scab", "Apple___healthy",
	"Corn___Gray_leaf_spot", "Corn___Common_rust", "Corn___healthy",
	"Potato___Early_blight", "Potato___Late_blight", "Potato___healthy",
	"Tomato___Bacterial_spot", "Tomato___Leaf_Mold", "Tomato___Late_blight",
	"Tomato___healthy",
}

type Metadata struct {
	InputName   string   `json:"input_name"`
	OutputName  string   `json:"output_name"`
	InputShape  []int64  `json:"input_shape"`
	OutputShape []int64  `json:"output_shape"`
	Classes     []string `json:"classes"`
	ImageSize   int      `json:"image_size"`
}

type Prediction struct {
	Class      string             `json:"class"`
	Index      int                `json:"index"`
	Confidence float32            `json:"confidence"`
	Scores     map[string]float32 `json:"scores"`
}
