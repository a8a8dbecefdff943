// Package modelbind converts flat, string-keyed request fields into nested
// values: primitives, enums, records, slices and string-keyed maps.
//
// Field names use dotted and bracketed paths, the way HTML forms submit them:
//
//	UserName=jonas                 -> root field
//	Author.UserName=jonas          -> nested record
//	Ages[]=8&Ages[]=32             -> flat slice of scalars
//	Users[0].FirstName=Arne        -> indexed slice of records
//	Users[jonas].FirstName=Hobbe   -> string-keyed map
//	Users['1'].FirstName=Kalle     -> map key that looks like a number
//
// # Shapes
//
// A Shape describes what to produce. Shapes are built once and reused by
// every request, either by hand:
//
//	var userShape = modelbind.Struct("User",
//		modelbind.Field("FirstName", modelbind.String(), func(u *User, v string) { u.FirstName = v }),
//		modelbind.Field("Age", modelbind.Int(), func(u *User, v int) { u.Age = v }),
//	)
//
// or derived from a Go type with Describe, which reads `form` struct tags and
// caches the resulting descriptor table:
//
//	shape, err := modelbind.Describe[User]()
//
// # Binding
//
// A Mapper holds an ordered list of binders (primitive, enum, array, map,
// class by default). For every value the first binder that claims the shape
// is used; nested values recurse through Context.Resolve back into the
// mapper.
//
//	m := modelbind.New()
//	user, err := modelbind.Bind[User](m, modelbind.Values(r.Form), userShape, "user")
//
// An empty root name binds the fields of a record directly, which is how a
// whole request is bound into a view model.
//
// # Errors
//
// Missing fields are not errors: they keep their zero value. Structural
// problems fail fast with a *BindingError carrying the field path and the raw
// value; errors.Is matches it against ErrConversion, ErrIndexGap,
// ErrUnparseableIndex, ErrUnterminatedIndex, ErrMissingConstructor and the
// other sentinels of this package.
//
// # Concurrency
//
// Shapes and mappers are immutable after construction and safe for
// concurrent use. Contexts and value sources are per call.
package modelbind
