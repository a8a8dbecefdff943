package modelbind_test

import (
	"bytes"
	"fmt"
	"log/slog"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/webkit/pkg/modelbind"
)

func TestMapper_Bind(t *testing.T) {
	t.Parallel()

	m := modelbind.New()

	t.Run("simple mapping", func(t *testing.T) {
		t.Parallel()
		got, err := modelbind.Bind[User](m, form("UserName", "Jonas", "FirstName", "Arne"), userShape, "")
		require.NoError(t, err)
		assert.Equal(t, "Jonas", got.UserName)
		assert.Equal(t, "Arne", got.FirstName)
	})

	t.Run("nested", func(t *testing.T) {
		t.Parallel()
		got, err := modelbind.Bind[Rating](m, form(
			"Author.UserName", "Jonas",
			"Author.FirstName", "Arne",
			"Rating", "22",
		), ratingShape, "")
		require.NoError(t, err)
		assert.Equal(t, "Jonas", got.Author.UserName)
		assert.Equal(t, "Arne", got.Author.FirstName)
		assert.Equal(t, 22, got.Rating)
		assert.Empty(t, got.Readers.Users)
	})

	t.Run("simple array", func(t *testing.T) {
		t.Parallel()
		got, err := modelbind.Bind[Ages](m, form("Ages[]", "8", "Ages[]", "32"), agesShape, "")
		require.NoError(t, err)
		assert.Equal(t, []int{8, 32}, got.Ages)
	})

	t.Run("record with indexed array", func(t *testing.T) {
		t.Parallel()
		got, err := modelbind.Bind[Users](m, form(
			"Users[0].FirstName", "Hobbe",
			"Users[0].Age", "32",
			"Users[1].FirstName", "Kalle",
			"Users[2].Age", "10",
		), usersShape, "")
		require.NoError(t, err)
		require.Len(t, got.Users, 3)
		assert.Equal(t, "Hobbe", got.Users[0].FirstName)
		assert.Equal(t, "Kalle", got.Users[1].FirstName)
		assert.Equal(t, 10, got.Users[2].Age)
	})

	t.Run("named indexed array", func(t *testing.T) {
		t.Parallel()
		got, err := modelbind.Bind[[]User](m, form(
			"users[0].FirstName", "Hobbe",
			"users[0].Age", "32",
			"users[1].FirstName", "Kalle",
			"users[2].Age", "10",
		), modelbind.Slice[User](userShape), "users")
		require.NoError(t, err)
		require.Len(t, got, 3)
		assert.Equal(t, "Hobbe", got[0].FirstName)
		assert.Equal(t, "Kalle", got[1].FirstName)
	})

	t.Run("associative array", func(t *testing.T) {
		t.Parallel()
		got, err := modelbind.Bind[map[string]User](m, form(
			"Users[Jonas].FirstName", "Hobbe",
			"Users[Jonas].Age", "32",
			"Users[Arne].FirstName", "Kalle",
			"Users[Arne].Age", "10",
		), modelbind.Map[User](userShape), "Users")
		require.NoError(t, err)
		assert.Equal(t, "Hobbe", got["Jonas"].FirstName)
		assert.Equal(t, "Kalle", got["Arne"].FirstName)
	})

	t.Run("associative array with numeric keys", func(t *testing.T) {
		t.Parallel()
		got, err := modelbind.Bind[UserDirectory](m, form(
			"Users['0'].FirstName", "Hobbe",
			"Users['0'].Age", "32",
			"Users['1'].FirstName", "Kalle",
			"Users['1'].Age", "10",
		), directoryShape, "")
		require.NoError(t, err)
		assert.Equal(t, "Hobbe", got.Users["0"].FirstName)
		assert.Equal(t, "Kalle", got.Users["1"].FirstName)
	})

	t.Run("enum field", func(t *testing.T) {
		t.Parallel()
		got, err := modelbind.Bind[StatusCode](m, form("code", "notfound"), statusShape, "code")
		require.NoError(t, err)
		assert.Equal(t, StatusNotFound, got)
	})

	t.Run("absent value yields zero", func(t *testing.T) {
		t.Parallel()
		got, err := modelbind.Bind[int](m, form("other", "1"), modelbind.Int(), "age")
		require.NoError(t, err)
		assert.Zero(t, got)

		users, err := modelbind.Bind[[]User](m, form(), modelbind.Slice[User](userShape), "users")
		require.NoError(t, err)
		assert.Nil(t, users)
	})

	t.Run("unnamed root requires a record", func(t *testing.T) {
		t.Parallel()
		for _, shape := range []*modelbind.Shape{
			modelbind.Int(),
			statusShape,
			modelbind.Slice[int](modelbind.Int()),
			modelbind.Map[User](userShape),
		} {
			_, err := m.Bind(form("x", "1"), shape, "")
			assert.ErrorIs(t, err, modelbind.ErrUnnamedRoot, shape.String())
		}
	})

	t.Run("nil arguments", func(t *testing.T) {
		t.Parallel()
		_, err := m.Bind(form(), nil, "x")
		assert.ErrorIs(t, err, modelbind.ErrNilShape)

		_, err = m.Bind(nil, userShape, "")
		assert.ErrorIs(t, err, modelbind.ErrNilSource)
	})

	t.Run("typed bind rejects a different type", func(t *testing.T) {
		t.Parallel()
		_, err := modelbind.Bind[string](m, form("age", "1"), modelbind.Int(), "age")
		assert.ErrorIs(t, err, modelbind.ErrShapeMismatch)
	})

	t.Run("repeated binds are identical", func(t *testing.T) {
		t.Parallel()
		src := form("Users[1].FirstName", "b", "Users[0].FirstName", "a")
		first, err := modelbind.Bind[Users](m, src, usersShape, "")
		require.NoError(t, err)
		second, err := modelbind.Bind[Users](m, src, usersShape, "")
		require.NoError(t, err)
		assert.Equal(t, first, second)
	})
}

func TestMapper_BinderSelection(t *testing.T) {
	t.Parallel()

	constant := modelbind.KindBinder{
		Kinds: []modelbind.Kind{modelbind.KindPrimitive},
		Func: func(*modelbind.Context) (any, bool, error) {
			return 99, true, nil
		},
	}

	t.Run("first claiming binder wins", func(t *testing.T) {
		t.Parallel()
		m := modelbind.New(modelbind.WithPriorityBinders(constant))
		got, err := modelbind.Bind[User](m, form("Age", "3"), userShape, "")
		require.NoError(t, err)
		assert.Equal(t, 99, got.Age)
	})

	t.Run("fallback binders only see unclaimed shapes", func(t *testing.T) {
		t.Parallel()
		m := modelbind.New(modelbind.WithFallbackBinders(constant))
		got, err := modelbind.Bind[User](m, form("Age", "3"), userShape, "")
		require.NoError(t, err)
		assert.Equal(t, 3, got.Age)
	})

	t.Run("binders are kept in order", func(t *testing.T) {
		t.Parallel()
		m := modelbind.New(modelbind.WithBinders(modelbind.ClassBinder{}, nil, modelbind.PrimitiveBinder{}))
		binders := m.Binders()
		require.Len(t, binders, 2)
		assert.IsType(t, modelbind.ClassBinder{}, binders[0])
		assert.IsType(t, modelbind.PrimitiveBinder{}, binders[1])
	})

	t.Run("unclaimed shapes resolve to zero", func(t *testing.T) {
		t.Parallel()
		m := modelbind.New(modelbind.WithBinders(modelbind.PrimitiveBinder{}))
		got, err := modelbind.Bind[User](m, form("u.FirstName", "x"), userShape, "u")
		require.NoError(t, err)
		assert.Equal(t, User{}, got)
	})

	t.Run("unclaimed shape without zero", func(t *testing.T) {
		t.Parallel()
		m := modelbind.New(modelbind.WithBinders(modelbind.PrimitiveBinder{}))
		v, err := m.Bind(form("u.Id", "1"), modelbind.Record("Row", nil, nil), "u")
		require.NoError(t, err)
		assert.Nil(t, v)
	})

	t.Run("nested mapper", func(t *testing.T) {
		t.Parallel()
		inner := userMapper()
		outer := modelbind.New(modelbind.WithBinders(inner.AsBinder()))
		got, err := modelbind.Bind[User](outer, form("u.FirstName", "Arne"), userShape, "u")
		require.NoError(t, err)
		assert.Equal(t, "Arne", got.FirstName)
	})
}

func TestMapper_Limits(t *testing.T) {
	t.Parallel()

	type Node struct {
		Value int
		Next  *Node
	}

	t.Run("defaults", func(t *testing.T) {
		t.Parallel()
		m := modelbind.New()
		assert.Equal(t, modelbind.DefaultConfig().MaxFields, m.MaxFields())
	})

	t.Run("config", func(t *testing.T) {
		t.Parallel()
		m := modelbind.New(modelbind.WithConfig(modelbind.Config{MaxDepth: 3, MaxFields: 5}))
		assert.Equal(t, 5, m.MaxFields())

		_, err := modelbind.BindAs[Node](m, form("n.Next.Next.Value", "1"), "n")
		require.NoError(t, err)

		_, err = modelbind.BindAs[Node](m, form("n.Next.Next.Next.Value", "1"), "n")
		assert.ErrorIs(t, err, modelbind.ErrDepthExceeded)
	})

	t.Run("depth limit disabled", func(t *testing.T) {
		t.Parallel()
		m := modelbind.New(modelbind.WithMaxDepth(0))
		got, err := modelbind.BindAs[Node](m, form("n.Next.Next.Next.Next.Next.Value", "6"), "n")
		require.NoError(t, err)
		assert.Equal(t, 6, got.Next.Next.Next.Next.Next.Value)
	})

	t.Run("non-positive field limit is ignored", func(t *testing.T) {
		t.Parallel()
		m := modelbind.New(modelbind.WithMaxFields(0))
		assert.Equal(t, 1000, m.MaxFields())
	})
}

func TestMapper_Logging(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	log := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	m := modelbind.New(modelbind.WithLogger(log), modelbind.WithLogger(nil))

	_, err := m.Bind(form("Author.UserName", "jonas"), ratingShape, "")
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "binding field")
	assert.Contains(t, out, "field=Author.UserName")
	assert.Contains(t, out, "binder=modelbind.PrimitiveBinder")
}

func TestMapper_Concurrent(t *testing.T) {
	t.Parallel()

	m := modelbind.New()
	var wg sync.WaitGroup
	errs := make(chan error, 64)
	for i := range 64 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			age := fmt.Sprint(i)
			got, err := modelbind.Bind[Users](m, form("Users[0].Age", age, "Users[1].FirstName", "x"), usersShape, "")
			if err != nil {
				errs <- err
				return
			}
			if len(got.Users) != 2 || got.Users[0].Age != i {
				errs <- fmt.Errorf("goroutine %d: unexpected result %+v", i, got)
			}
		}()
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		assert.NoError(t, err)
	}
}
