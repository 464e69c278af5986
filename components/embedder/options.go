package embedder

// Provider names an embedding service.
type Provider = string

const (
	ProviderOpenAI Provider = "OpenAI"
	ProviderCohere Provider = "Cohere"
	ProviderHTTP   Provider = "HTTP"
)

// Options holds the configuration shared by Embedder implementations.
type Options struct {
	// provider specifies the embedding service in use
	provider Provider
	// model specifies the model to use
	model string
}

// Option is a function type for configuring embedder Options.
// It follows the functional options pattern for clean and flexible configuration.
type Option func(*Options)

func WithProvider(provider Provider) Option {
	return func(o *Options) {
		o.provider = provider
	}
}

func WithModel(model string) Option {
	return func(o *Options) {
		o.model = model
	}
}

func (o Options) Provider() Provider {
	return o.provider
}

func (o Options) Model() string {
	return o.model
}

// Apply runs the options against o.
func (o *Options) Apply(opts ...Option) {
	for _, opt := range opts {
		opt(o)
	}
}
