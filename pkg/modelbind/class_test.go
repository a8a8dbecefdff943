package modelbind_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/webkit/pkg/modelbind"
)

func TestClassBinder(t *testing.T) {
	t.Parallel()

	primitives := modelbind.New(modelbind.WithBinders(modelbind.PrimitiveBinder{}))
	bind := func(shape *modelbind.Shape, src modelbind.ValueSource) (any, bool, error) {
		return modelbind.ClassBinder{}.Bind(modelbind.NewContext(src, primitives, shape, "", "user"))
	}

	t.Run("fields under the record name", func(t *testing.T) {
		t.Parallel()
		v, ok, err := bind(userShape, form("user.FirstName", "jonas", "user.Age", "23", "FirstName", "other"))
		require.NoError(t, err)
		require.True(t, ok)
		assert.Equal(t, User{FirstName: "jonas", Age: 23}, v)
	})

	t.Run("invalid field type", func(t *testing.T) {
		t.Parallel()
		_, _, err := bind(userShape, form("user.FirstName", "jonas", "user.Age", "arne"))
		require.Error(t, err)

		var bindErr *modelbind.BindingError
		require.True(t, errors.As(err, &bindErr))
		assert.Equal(t, "user.Age", bindErr.Field)
		assert.Equal(t, "arne", bindErr.Value)
		assert.ErrorIs(t, err, modelbind.ErrConversion)
	})

	t.Run("unknown fields are ignored", func(t *testing.T) {
		t.Parallel()
		v, _, err := bind(userShape, form("user.FirstName", "jonas", "user.NotInventedHere", "23"))
		require.NoError(t, err)
		assert.Equal(t, User{FirstName: "jonas"}, v)
	})

	t.Run("record without constructor", func(t *testing.T) {
		t.Parallel()
		shape := modelbind.Record("Test", nil, nil,
			modelbind.NewField("FirstName", modelbind.String(), func(any, any) bool { return true }),
		)
		_, _, err := bind(shape, form("user.FirstName", "jonas"))
		require.Error(t, err)
		assert.ErrorIs(t, err, modelbind.ErrMissingConstructor)
		assert.Contains(t, err.Error(), "Test")

		var bindErr *modelbind.BindingError
		require.True(t, errors.As(err, &bindErr))
		assert.Equal(t, "user", bindErr.Field)
	})

	t.Run("first field error aborts", func(t *testing.T) {
		t.Parallel()
		var visited []string
		shape := modelbind.Struct("Pair",
			modelbind.Field("A", modelbind.Int(), func(p *[2]int, v int) { visited = append(visited, "A") }),
			modelbind.Field("B", modelbind.Int(), func(p *[2]int, v int) { visited = append(visited, "B") }),
		)
		_, _, err := bind(shape, form("user.A", "x", "user.B", "2"))
		require.Error(t, err)
		assert.Empty(t, visited)
	})

	t.Run("untyped record", func(t *testing.T) {
		t.Parallel()
		shape := modelbind.Record("Row",
			func() any { return map[string]any{} },
			nil,
			modelbind.NewField("Id", modelbind.Int(), func(inst, v any) bool {
				inst.(map[string]any)["Id"] = v
				return true
			}),
		)
		v, ok, err := bind(shape, form("user.Id", "5"))
		require.NoError(t, err)
		require.True(t, ok)
		assert.Equal(t, map[string]any{"Id": 5}, v)
	})

	t.Run("mismatched setter", func(t *testing.T) {
		t.Parallel()
		shape := modelbind.Struct("User",
			modelbind.Field("Age", modelbind.Int64(), func(u *User, v int) { u.Age = v }),
		)
		_, _, err := bind(shape, form("user.Age", "5"))
		assert.ErrorIs(t, err, modelbind.ErrShapeMismatch)
	})
}

func TestClassBinder_Optional(t *testing.T) {
	t.Parallel()

	type Profile struct {
		Bio string
	}
	type Account struct {
		Name    string
		Profile *Profile
	}
	profileShape := modelbind.StructPtr("Profile",
		modelbind.Field("Bio", modelbind.String(), func(p *Profile, v string) { p.Bio = v }),
	)
	accountShape := modelbind.Struct("Account",
		modelbind.Field("Name", modelbind.String(), func(a *Account, v string) { a.Name = v }),
		modelbind.Field("Profile", profileShape, func(a *Account, v *Profile) { a.Profile = v }),
	)
	m := modelbind.New()

	t.Run("absent record stays nil", func(t *testing.T) {
		t.Parallel()
		got, err := modelbind.Bind[Account](m, form("Name", "jonas"), accountShape, "")
		require.NoError(t, err)
		assert.Equal(t, "jonas", got.Name)
		assert.Nil(t, got.Profile)
	})

	t.Run("submitted record is allocated", func(t *testing.T) {
		t.Parallel()
		got, err := modelbind.Bind[Account](m, form("Profile.Bio", "hi"), accountShape, "")
		require.NoError(t, err)
		require.NotNil(t, got.Profile)
		assert.Equal(t, "hi", got.Profile.Bio)
	})
}
