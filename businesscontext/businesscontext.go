package businesscontext

// A BusinessContext is the caller-supplied set of correlation fields (tenant,
// user, operation, ...) propagated alongside the distributed trace context.
// It is an immutable value; use a Builder to construct one and ToBuilder to
// derive a modified copy. Every field is optional and absent fields are never
// mirrored into logs or spans.
type BusinessContext struct {
	businessID    string
	userID        string
	tenantID      string
	correlationID string
	transactionID string
	executionID   string
	operation     string
	component     string
	sessionID     string
	custom        map[string]string
}

func (c BusinessContext) BusinessID() string    { return c.businessID }
func (c BusinessContext) UserID() string        { return c.userID }
func (c BusinessContext) TenantID() string      { return c.tenantID }
func (c BusinessContext) CorrelationID() string { return c.correlationID }
func (c BusinessContext) TransactionID() string { return c.transactionID }
func (c BusinessContext) ExecutionID() string   { return c.executionID }
func (c BusinessContext) Operation() string     { return c.operation }
func (c BusinessContext) Component() string     { return c.component }
func (c BusinessContext) SessionID() string     { return c.sessionID }

// CustomAttributes returns a copy of the custom attribute map.
func (c BusinessContext) CustomAttributes() map[string]string {
	if len(c.custom) == 0 {
		return nil
	}
	m := make(map[string]string, len(c.custom))
	for k, v := range c.custom {
		m[k] = v
	}
	return m
}

// IsEmpty reports whether no field at all is set.
func (c BusinessContext) IsEmpty() bool {
	return c.businessID == "" && c.userID == "" && c.tenantID == "" &&
		c.correlationID == "" && c.transactionID == "" && c.executionID == "" &&
		c.operation == "" && c.component == "" && c.sessionID == "" &&
		len(c.custom) == 0
}

// ToBuilder returns a Builder seeded with the receiver's fields.
func (c BusinessContext) ToBuilder() *Builder {
	b := &Builder{ctx: c}
	b.ctx.custom = c.CustomAttributes()
	return b
}

// A Builder assembles a BusinessContext. The zero value is ready to use but
// NewBuilder reads better at call sites.
type Builder struct {
	ctx BusinessContext
}

func NewBuilder() *Builder {
	return &Builder{}
}

func (b *Builder) BusinessID(v string) *Builder    { b.ctx.businessID = v; return b }
func (b *Builder) UserID(v string) *Builder        { b.ctx.userID = v; return b }
func (b *Builder) TenantID(v string) *Builder      { b.ctx.tenantID = v; return b }
func (b *Builder) CorrelationID(v string) *Builder { b.ctx.correlationID = v; return b }
func (b *Builder) TransactionID(v string) *Builder { b.ctx.transactionID = v; return b }
func (b *Builder) ExecutionID(v string) *Builder   { b.ctx.executionID = v; return b }
func (b *Builder) Operation(v string) *Builder     { b.ctx.operation = v; return b }
func (b *Builder) Component(v string) *Builder     { b.ctx.component = v; return b }
func (b *Builder) SessionID(v string) *Builder     { b.ctx.sessionID = v; return b }

// CustomAttribute adds one custom key-value pair. Keys are unique; setting a
// key twice keeps the last value.
func (b *Builder) CustomAttribute(key, value string) *Builder {
	if key == "" {
		return b
	}
	if b.ctx.custom == nil {
		b.ctx.custom = make(map[string]string)
	}
	b.ctx.custom[key] = value
	return b
}

// Build returns the assembled BusinessContext. The builder can keep being
// used afterwards; the returned value does not alias the builder's map.
func (b *Builder) Build() BusinessContext {
	out := b.ctx
	out.custom = b.ctx.CustomAttributes()
	return out
}
