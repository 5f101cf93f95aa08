package godi

import (
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const pkgPath = "github.com/junioryono/godi/v5"

func TestTypeOf(t *testing.T) {
	t.Parallel()

	assert.Equal(t, reflect.Interface, TypeOf[Greeter]().Kind())
	assert.Equal(t, reflect.TypeOf(&TService{}), TypeOf[*TService]())
	assert.Equal(t, reflect.TypeOf(0), TypeOf[int]())
}

func TestDecoratedType(t *testing.T) {
	t.Parallel()

	greeter := DecoratedType{Inner: TypeOf[Greeter]()}

	assert.Equal(t, "Decorated[Greeter]", greeter.String())
	assert.Equal(t, greeter, DecoratedType{Inner: TypeOf[Greeter]()})
	assert.NotEqual(t, greeter, DecoratedType{Inner: TypeOf[TInterface]()})

	var asKey ServiceType = greeter
	assert.NotEqual(t, ServiceType(TypeOf[Greeter]()), asKey)

	keys := map[ServiceType]int{greeter: 1, TypeOf[Greeter](): 2}
	assert.Len(t, keys, 2)
	assert.Equal(t, 1, keys[DecoratedType{Inner: TypeOf[Greeter]()}])
}

func TestOpenGeneric(t *testing.T) {
	t.Parallel()

	def := OpenGeneric[Cache[any]]()
	assert.Equal(t, GenericDefinition{PkgPath: pkgPath, Name: "Cache"}, def)
	assert.Equal(t, def, OpenGeneric[Cache[int]](), "the type argument is irrelevant")
	assert.NotEqual(t, def, OpenGeneric[Box[any]]())
	assert.Equal(t, pkgPath+".Cache[...]", def.String())

	assert.Panics(t, func() { OpenGeneric[Greeter]() })
}

func TestGenericDefinitionOf(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		t       reflect.Type
		want    GenericDefinition
		wantErr error
	}{
		{name: "interface instantiation", t: TypeOf[Cache[string]](), want: GenericDefinition{PkgPath: pkgPath, Name: "Cache"}},
		{name: "struct instantiation", t: TypeOf[Box[int]](), want: GenericDefinition{PkgPath: pkgPath, Name: "Box"}},
		{name: "nil", wantErr: ErrServiceTypeNil},
		{name: "not generic", t: TypeOf[*TService]()},
		{name: "pointer to instantiation", t: TypeOf[*Box[int]]()},
		{name: "builtin", t: TypeOf[[]int]()},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			def, err := GenericDefinitionOf(tt.t)
			if tt.want != (GenericDefinition{}) {
				require.NoError(t, err)
				assert.Equal(t, tt.want, def)
				return
			}

			require.Error(t, err)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			var validationErr ValidationError
			assert.ErrorAs(t, err, &validationErr)
		})
	}
}

func TestGenericDefinition_Matches(t *testing.T) {
	t.Parallel()

	cache := OpenGeneric[Cache[any]]()

	assert.True(t, cache.Matches(TypeOf[Cache[int]]()))
	assert.True(t, cache.Matches(TypeOf[Cache[Box[string]]]()))
	assert.False(t, cache.Matches(TypeOf[Box[int]]()))
	assert.False(t, cache.Matches(TypeOf[*Box[int]]()))
	assert.False(t, cache.Matches(TypeOf[Greeter]()))
	assert.False(t, cache.Matches(nil))

	box := OpenGeneric[Box[any]]()
	assert.True(t, box.Matches(TypeOf[Box[int]]()))
	assert.False(t, box.Matches(TypeOf[*Box[int]]()), "pointers are decorated by their closed type")
}

func TestServiceTypeKinds(t *testing.T) {
	t.Parallel()

	closed := TypeOf[Greeter]()
	decorated := DecoratedType{Inner: closed}
	open := OpenGeneric[Cache[any]]()

	assert.False(t, IsOpenGeneric(closed))
	assert.False(t, IsOpenGeneric(decorated))
	assert.True(t, IsOpenGeneric(open))

	assert.False(t, IsDecorated(closed))
	assert.True(t, IsDecorated(decorated))
	assert.False(t, IsDecorated(open))

	assert.Equal(t, "Greeter", formatServiceType(closed))
	assert.Equal(t, "Decorated[Greeter]", formatServiceType(decorated))
	assert.Equal(t, pkgPath+".Cache[...]", formatServiceType(open))
	assert.Equal(t, "<nil>", formatServiceType(nil))
}
