package llm

// Safety categories and thresholds understood by providers that support
// content filtering. Values follow the generateContent wire names.
const (
	CategoryHarassment = "HARM_CATEGORY_HARASSMENT"
	CategoryHateSpeech = "HARM_CATEGORY_HATE_SPEECH"

	ThresholdBlockMediumAndAbove = "BLOCK_MEDIUM_AND_ABOVE"
)

// SafetyThreshold sets the content-filter sensitivity for one category.
type SafetyThreshold struct {
	Category  string `json:"category"`
	Threshold string `json:"threshold"`
}

// Options holds generation parameters. Nil pointer fields mean "provider
// default"; providers ignore options their API cannot express.
type Options struct {
	Temperature      *float64
	MaxOutputTokens  *int
	TopP             *float64
	TopK             *int
	SafetyThresholds []SafetyThreshold
}

// Option configures a generation call.
type Option func(*Options)

// WithTemperature sets the sampling randomness.
func WithTemperature(t float64) Option {
	return func(o *Options) { o.Temperature = &t }
}

// WithMaxOutputTokens caps the response length.
func WithMaxOutputTokens(n int) Option {
	return func(o *Options) { o.MaxOutputTokens = &n }
}

// WithTopP sets the nucleus-sampling breadth.
func WithTopP(p float64) Option {
	return func(o *Options) { o.TopP = &p }
}

// WithTopK sets the top-k sampling breadth.
func WithTopK(k int) Option {
	return func(o *Options) { o.TopK = &k }
}

// WithSafetyThreshold adds a content-filter threshold for a category.
func WithSafetyThreshold(category, threshold string) Option {
	return func(o *Options) {
		o.SafetyThresholds = append(o.SafetyThresholds, SafetyThreshold{
			Category:  category,
			Threshold: threshold,
		})
	}
}

func buildOptions(opts []Option) Options {
	var options Options
	for _, opt := range opts {
		opt(&options)
	}
	return options
}
