package hosting

import (
	"fmt"
	"reflect"
)

// ConfigureContainerFunc configures a container builder in place.
type ConfigureContainerFunc func(builder any) error

// BindContainer turns a configure-container method into a ConfigureContainerFunc.
// The method must take exactly builderType: a parameter the builder is merely
// assignable to, like an interface it implements, is rejected.
func BindContainer(b *MethodBinding, builderType reflect.Type) (ConfigureContainerFunc, error) {
	if builderType == nil {
		return nil, errInvalidArgument("builder type can't be nil").WithMethod(b.String())
	}

	sig := Signature{
		Params:   [][]reflect.Type{{builderType}},
		Results:  [][]reflect.Type{{}, {errorType}},
		Expected: fmt.Sprintf("func(%s) or func(%s) error", builderType, builderType),
	}

	if err := b.Match(sig); err != nil {
		return nil, err
	}

	return func(builder any) error {
		if builder != nil && !reflect.TypeOf(builder).AssignableTo(builderType) {
			panic(errTypeMismatch(builderType.String(), fmt.Sprintf("%T", builder)).WithMethod(b.String()))
		}

		out := b.Call(builder)
		if len(out) == 1 {
			return asError(out[0])
		}

		return nil
	}, nil
}
