package cache

// Keyer derives cache keys. Every input that changes a result must be part
// of its key.
type Keyer interface {
	// ColumnsKey keys a column assignment of the snapshot hashed graphHash.
	ColumnsKey(graphHash string, opts ColumnsKeyOpts) string

	// ArrangeKey keys an arrangement of the snapshot hashed graphHash.
	ArrangeKey(graphHash string, opts ArrangeKeyOpts) string

	// RenderKey keys a rendered column assignment.
	RenderKey(columnsHash string, opts RenderKeyOpts) string
}

// ColumnsKeyOpts holds the options of a column assignment.
type ColumnsKeyOpts struct {
	HardwareOnSides bool `json:"hardware_on_sides"`
}

// ArrangeKeyOpts holds the options of an arrangement.
type ArrangeKeyOpts struct {
	Mode       string `json:"mode"`
	ConfigHash string `json:"config_hash"`
}

// RenderKeyOpts holds the options of a rendering.
type RenderKeyOpts struct {
	Format string `json:"format"`
}

// DefaultKeyer hashes the options into the key.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the default keyer.
func NewDefaultKeyer() *DefaultKeyer { return &DefaultKeyer{} }

func (DefaultKeyer) ColumnsKey(graphHash string, opts ColumnsKeyOpts) string {
	return hashKey("columns", graphHash, opts)
}

func (DefaultKeyer) ArrangeKey(graphHash string, opts ArrangeKeyOpts) string {
	return hashKey("arrange", graphHash, opts)
}

func (DefaultKeyer) RenderKey(columnsHash string, opts RenderKeyOpts) string {
	return hashKey("render", columnsHash, opts)
}

// ScopedKeyer prefixes the keys of another Keyer, so that several users
// of one shared cache never see each other's entries.
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer creates a keyer with a prefix. A nil inner keyer means
// the default keyer.
func NewScopedKeyer(inner Keyer, prefix string) *ScopedKeyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{inner: inner, prefix: prefix}
}

func (k *ScopedKeyer) ColumnsKey(graphHash string, opts ColumnsKeyOpts) string {
	return k.prefix + k.inner.ColumnsKey(graphHash, opts)
}

func (k *ScopedKeyer) ArrangeKey(graphHash string, opts ArrangeKeyOpts) string {
	return k.prefix + k.inner.ArrangeKey(graphHash, opts)
}

func (k *ScopedKeyer) RenderKey(columnsHash string, opts RenderKeyOpts) string {
	return k.prefix + k.inner.RenderKey(columnsHash, opts)
}

var (
	_ Keyer = (*DefaultKeyer)(nil)
	_ Keyer = (*ScopedKeyer)(nil)
)
