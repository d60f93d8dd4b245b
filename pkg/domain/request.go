package domain

// Request carries the per-call context handed from the hosting layer into
// the engine: which web session is acting, as which user, and any
// parameters supplied with the triggering event.
type Request struct {
	SessionKey string
	User       string
	Params     map[string]any
}

// Param returns a named request parameter, or nil.
func (r *Request) Param(name string) any {
	if r == nil || r.Params == nil {
		return nil
	}
	return r.Params[name]
}
