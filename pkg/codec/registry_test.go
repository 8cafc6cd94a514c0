package codec_test

import (
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/near/near-jsonrpc-go/pkg/codec"
)

type notAVariant struct{}

type holdsUnregistered struct {
	Items []struct {
		Status Status `json:"status"`
	} `json:"items"`
}

type collides struct {
	Name string `json:"name"`
}

func (collides) isRequestError() {}

func TestNewRegistry_RejectsInvalidDescriptors(t *testing.T) {
	t.Parallel()

	tcs := []struct {
		name string
		sum  *codec.SumType
		want string
	}{
		{
			name: "variant does not implement interface",
			sum:  codec.Externally[Permission](codec.Tagged[notAVariant]("X")),
			want: "does not implement",
		},
		{
			name: "duplicate tag",
			sum: codec.Externally[Permission](
				codec.Tagged[FullAccess]("Same"),
				codec.Tagged[FunctionCall]("Same"),
			),
			want: `tag "Same" declared twice`,
		},
		{
			name: "bare unit with payload",
			sum:  codec.Externally[Status](codec.BareUnit[StatusSuccessValue]("SuccessValue")),
			want: "must be a struct without fields",
		},
		{
			name: "discriminator field collides with payload field",
			sum:  codec.ByField[RequestError]("name", codec.Tagged[collides]("COLLIDES")),
			want: "declares the discriminator field",
		},
		{
			name: "sniffed variant without matcher",
			sum:  codec.ByContent[BlockID](codec.Tagged[BlockHeight]("height")),
			want: "must be declared with a matcher",
		},
		{
			name: "sniffed unit variant",
			sum:  codec.ByContent[Status](codec.When[StatusPending](codec.IsObject())),
			want: "no payload to match",
		},
		{
			name: "wrapped variant with several fields",
			sum:  codec.Externally[Permission](codec.Wrapped[FunctionCall]("FunctionCall")),
			want: "exactly one field",
		},
		{
			name: "bare unit under discriminator",
			sum:  codec.ByField[RequestError]("name", codec.BareUnit[Timeout]("TIMEOUT")),
			want: "only valid for external tagging",
		},
		{
			name: "no variants",
			sum:  codec.Externally[Permission](),
			want: "no variants",
		},
	}

	for _, tc := range tcs {
		t.Run(tc.name, func(t *testing.T) {
			_, err := codec.NewRegistry(tc.sum)
			require.ErrorIs(t, err, codec.ErrInvalidDescriptor)
			assert.Contains(t, err.Error(), tc.want)
		})
	}
}

func TestNewRegistry_VariantOwnedTwice(t *testing.T) {
	t.Parallel()

	_, err := codec.NewRegistry(
		codec.Externally[Permission](codec.Tagged[FullAccess]("FullAccess")),
		codec.Externally[Permission](codec.Tagged[FunctionCall]("FunctionCall")),
	)
	require.ErrorIs(t, err, codec.ErrInvalidDescriptor)
	assert.Contains(t, err.Error(), "registered twice")
}

func TestRegistry_Lookup(t *testing.T) {
	t.Parallel()

	reg, err := codec.NewRegistry(testSchema()...)
	require.NoError(t, err)

	st, ok := codec.LookupFor[RequestError](reg)
	require.True(t, ok)
	assert.Equal(t, "RequestError", st.Name())
	assert.Equal(t, codec.Discriminator, st.Discipline())
	assert.Equal(t, "name", st.Field())

	variants := st.Variants()
	require.Len(t, variants, 3)
	assert.Equal(t, "METHOD_NOT_FOUND", variants[0].Tag())
	assert.Equal(t, codec.ShapeRecord, variants[0].Shape())
	assert.Equal(t, codec.ShapeUnit, variants[2].Shape())

	_, ok = reg.Lookup(reflect.TypeFor[error]())
	assert.False(t, ok)

	names := make([]string, 0)
	for _, st := range reg.SumTypes() {
		names = append(names, st.Name())
	}
	assert.Equal(t, []string{"BlockID", "Identifier", "Permission", "Query", "Reference", "RequestError", "Status"}, names)
}

func TestRegistry_Verify(t *testing.T) {
	t.Parallel()

	reg, err := codec.NewRegistry(testSchema()...)
	require.NoError(t, err)
	require.NoError(t, reg.Verify(reflect.TypeFor[Account](), reflect.TypeFor[holdsUnregistered]()))

	partial, err := codec.NewRegistry(
		codec.Externally[Permission](
			codec.Tagged[FullAccess]("FullAccess"),
			codec.Tagged[FunctionCall]("FunctionCall"),
		),
	)
	require.NoError(t, err)

	err = partial.Verify(reflect.TypeFor[holdsUnregistered]())
	require.ErrorIs(t, err, codec.ErrUnregisteredType)
	assert.Contains(t, err.Error(), "Status")

	// Account reaches only Permission, which is registered.
	assert.NoError(t, partial.Verify(reflect.TypeFor[Account]()))
}

func TestRegistry_Shadowed(t *testing.T) {
	t.Parallel()

	reg, err := codec.NewRegistry(testSchema()...)
	require.NoError(t, err)

	shadows := reg.Shadowed()
	require.Len(t, shadows, 1)
	assert.Equal(t, codec.Shadow{Type: "Identifier", Winner: "IdentifierHash", Loser: "IdentifierAccount"}, shadows[0])
	assert.Equal(t, "Identifier: IdentifierHash shadows IdentifierAccount", shadows[0].String())
}

func TestMatchers(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "is integer", codec.IsInteger().String())
	assert.Equal(t, "is string", codec.IsString().String())
	assert.Equal(t, "is object", codec.IsObject().String())
	assert.Equal(t, "has keys {amount,code_hash}", codec.HasKeys("amount", "code_hash").String())
}
