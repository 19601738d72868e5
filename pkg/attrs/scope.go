package attrs

// Source provides instance attributes for default resolution.
type Source interface {
	Lookup(key string) (any, bool)
}

// Frame holds the values resolved by one helper call.
type Frame struct {
	Prefix string
	values Map
}

// Values returns a copy of the values resolved in this frame.
func (f *Frame) Values() Map {
	return f.values.Clone()
}

// Scope resolves optional parameters from a Source.
//
// A parameter left unset by the caller resolves, in order, to the source's
// "<prefix>_<param>", then "<param>", then nil. Resolved values are recorded
// in the innermost frame.
type Scope struct {
	src    Source
	frames []*Frame
}

// NewScope returns a scope resolving from src.
func NewScope(src Source) *Scope {
	return &Scope{src: src}
}

// Enter pushes a frame for prefix and returns the function that pops it.
// The release function is idempotent and also pops any frames entered after
// this one and never released, so a deferred release restores the stack on
// every exit path.
func (s *Scope) Enter(prefix string) (release func()) {
	depth := len(s.frames)
	s.frames = append(s.frames, &Frame{Prefix: prefix, values: Map{}})
	return func() {
		if len(s.frames) > depth {
			s.frames = s.frames[:depth]
		}
	}
}

// Depth returns the number of active frames.
func (s *Scope) Depth() int {
	return len(s.frames)
}

// Current returns the innermost frame, or nil outside any frame.
func (s *Scope) Current() *Frame {
	if len(s.frames) == 0 {
		return nil
	}
	return s.frames[len(s.frames)-1]
}

// Resolve returns explicit when non-nil, otherwise the inherited default.
func (s *Scope) Resolve(param string, explicit any) any {
	v := explicit
	if v == nil {
		v = s.inherited(param)
	}
	if f := s.Current(); f != nil {
		f.values[param] = v
	}
	return v
}

// ResolveMap merges explicit over the inherited mapping for param.
func (s *Scope) ResolveMap(param string, explicit Map) Map {
	base, _ := AsMap(s.inherited(param))
	out := MergeMaps(base, explicit)
	if f := s.Current(); f != nil {
		f.values[param] = out
	}
	return out
}

func (s *Scope) inherited(param string) any {
	if s.src == nil {
		return nil
	}
	if f := s.Current(); f != nil && f.Prefix != "" {
		if v, ok := s.src.Lookup(f.Prefix + "_" + param); ok {
			return v
		}
	}
	if v, ok := s.src.Lookup(param); ok {
		return v
	}
	return nil
}

// ResolveFloat resolves a numeric parameter. The result is nil when neither
// the caller nor the source provides a number.
func ResolveFloat(s *Scope, param string, explicit *float64) *float64 {
	var e any
	if explicit != nil {
		e = *explicit
	}
	if f, ok := ToFloat(s.Resolve(param, e)); ok {
		return &f
	}
	return nil
}

// ResolveString resolves a text parameter.
func ResolveString(s *Scope, param string, explicit *string) *string {
	var e any
	if explicit != nil {
		e = *explicit
	}
	if v, ok := ToString(s.Resolve(param, e)); ok {
		return &v
	}
	return nil
}

// ResolveBool resolves a boolean parameter.
func ResolveBool(s *Scope, param string, explicit *bool) *bool {
	var e any
	if explicit != nil {
		e = *explicit
	}
	if v, ok := ToBool(s.Resolve(param, e)); ok {
		return &v
	}
	return nil
}
