package entities

// Factory constructs a zero-value instance of one entity variant, not
// yet bound to any model.
type Factory func() Entity

var registry = map[int]Factory{}

// Register installs factory as the constructor for typeCode. Called
// from each variant file's init(), generalizing the teacher's
// string-keyed entities.Register into the IGES type-code registry
// (spec.md §4.4).
func Register(typeCode int, factory Factory) {
	registry[typeCode] = factory
}

// Create constructs the entity variant registered for typeCode, or a
// NullEntity if the code is unknown (spec.md §4.4, §6: "only the subset
// listed in §4.6 is typed; others map to NullEntity"). Create is the
// only legitimate path the resolver and Model.NewEntity use to allocate
// entities — spec.md §3.4.
func Create(typeCode int) Entity {
	if factory, ok := registry[typeCode]; ok {
		e := factory()
		e.Base().Init(typeCode)
		e.Base().BindSelf(e)
		return e
	}
	e := &NullEntity{}
	e.Base().Init(typeCode)
	e.Base().BindSelf(e)
	return e
}

// Registered reports whether typeCode has a typed constructor (used by
// diagnostics and tests rather than by the resolver itself).
func Registered(typeCode int) bool {
	_, ok := registry[typeCode]
	return ok
}
