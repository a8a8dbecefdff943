package modelbind_test

import (
	"github.com/dmitrymomot/webkit/pkg/modelbind"
)

type User struct {
	UserName  string
	FirstName string
	Age       int
}

type Users struct {
	Users []User
}

type Rating struct {
	Author  User
	Readers Users
	Rating  int
}

type Ages struct {
	Ages []int
}

type UserDirectory struct {
	Users map[string]User
}

type StatusCode int

const (
	StatusOK        StatusCode = 200
	StatusForbidden StatusCode = 403
	StatusNotFound  StatusCode = 404
)

func (StatusCode) EnumMembers() []modelbind.EnumMember {
	return []modelbind.EnumMember{
		modelbind.Member("OK", 200),
		modelbind.Member("Forbidden", 403),
		modelbind.Member("NotFound", 404),
	}
}

var (
	userShape = modelbind.Struct("User",
		modelbind.Field("UserName", modelbind.String(), func(u *User, v string) { u.UserName = v }),
		modelbind.Field("FirstName", modelbind.String(), func(u *User, v string) { u.FirstName = v }),
		modelbind.Field("Age", modelbind.Int(), func(u *User, v int) { u.Age = v }),
	)

	usersShape = modelbind.Struct("Users",
		modelbind.Field("Users", modelbind.Slice[User](userShape), func(u *Users, v []User) { u.Users = v }),
	)

	ratingShape = modelbind.Struct("Rating",
		modelbind.Field("Author", userShape, func(r *Rating, v User) { r.Author = v }),
		modelbind.Field("Readers", usersShape, func(r *Rating, v Users) { r.Readers = v }),
		modelbind.Field("Rating", modelbind.Int(), func(r *Rating, v int) { r.Rating = v }),
	)

	agesShape = modelbind.Struct("Ages",
		modelbind.Field("Ages", modelbind.Slice[int](modelbind.Int()), func(a *Ages, v []int) { a.Ages = v }),
	)

	directoryShape = modelbind.Struct("UserDirectory",
		modelbind.Field("Users", modelbind.Map[User](userShape), func(d *UserDirectory, v map[string]User) { d.Users = v }),
	)

	statusShape = modelbind.Enum[StatusCode]("StatusCode",
		modelbind.Member("OK", 200),
		modelbind.Member("Forbidden", 403),
		modelbind.Member("NotFound", 404),
	)
)

// form builds an ordered value source from name/value pairs; repeated names
// accumulate values like a submitted form.
func form(pairs ...string) *modelbind.List {
	l := &modelbind.List{}
	for i := 0; i+1 < len(pairs); i += 2 {
		l.Add(pairs[i], pairs[i+1])
	}
	return l
}

// userMapper binds primitives and records only.
func userMapper() *modelbind.Mapper {
	return modelbind.New(modelbind.WithBinders(
		modelbind.PrimitiveBinder{},
		modelbind.ClassBinder{},
	))
}
