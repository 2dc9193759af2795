package observer

// Layer names a processing stage. Layers are labels only.
type Layer string

// Layer constants, in the order a processing run passes through them.
const (
	LayerEnvironment    Layer = "environment"
	LayerParsing        Layer = "parsing"
	LayerTransformation Layer = "transformation"
	LayerIntegration    Layer = "integration"
	LayerMetaAnalysis   Layer = "meta_analysis"
)

// Layers returns every layer in processing order.
func Layers() []Layer {
	return []Layer{
		LayerEnvironment,
		LayerParsing,
		LayerTransformation,
		LayerIntegration,
		LayerMetaAnalysis,
	}
}

// String implements fmt.Stringer.
func (l Layer) String() string {
	return string(l)
}
