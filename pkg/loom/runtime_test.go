package loom

import (
	"testing"

	"github.com/loomlang/loom/internal/codec"
	"github.com/loomlang/loom/internal/eval"
	"github.com/loomlang/loom/internal/ir"
	"github.com/loomlang/loom/internal/lmerr"
	"github.com/loomlang/loom/internal/registry"
	"github.com/loomlang/loom/internal/types"
	"github.com/loomlang/loom/internal/values"
	"github.com/loomlang/loom/pkg/platform/native"
)

func TestNewRuntimeExposesRootEnvironment(t *testing.T) {
	rt := New(native.NewNativePlatform())
	if rt.RootEnvironment() == nil {
		t.Fatal("expected non-nil root environment")
	}
}

func TestRegisterBuiltinIsLookupable(t *testing.T) {
	rt := New(native.NewNativePlatform())
	rt.RegisterBuiltin("double", func(typeArgs []*types.Type) registry.Implementation {
		return func(args []*values.Value) (*values.Value, *lmerr.Error) {
			return values.NewInteger(args[0].Int() * 2), nil
		}
	})

	factory, ok := rt.reg.LookupBuiltin("double")
	if !ok {
		t.Fatal("expected \"double\" to be registered")
	}
	arg := values.NewInteger(21)
	defer arg.Release()
	result, lerr := factory(nil)([]*values.Value{arg})
	if lerr != nil {
		t.Fatalf("unexpected error: %v", lerr)
	}
	defer result.Release()
	if result.Int() != 42 {
		t.Fatalf("expected 42, got %v", result.Int())
	}
}

func TestLoadTypeRoundTrips(t *testing.T) {
	want := types.NewArray(types.TString)
	defer want.Release()

	for _, c := range []codec.Codec{codec.JSON, codec.Binary, codec.Text} {
		data, err := EncodeType(want, c)
		if err != nil {
			t.Fatalf("%s: EncodeType: %v", c.Name(), err)
		}
		rt := New(native.NewNativePlatform())
		got, err := rt.LoadType(data, c)
		if err != nil {
			t.Fatalf("%s: LoadType: %v", c.Name(), err)
		}
		defer got.Release()
		if !types.Equal(got, want) {
			t.Fatalf("%s: LoadType round trip mismatch: got %s, want %s", c.Name(), got, want)
		}
	}
}

func TestLoadIRRoundTrips(t *testing.T) {
	v := values.NewInteger(42)
	node := ir.Literal(types.TInteger, v)
	v.Release()
	defer node.Release()

	for _, c := range []codec.Codec{codec.JSON, codec.Binary, codec.Text} {
		data, err := EncodeIR(node, c)
		if err != nil {
			t.Fatalf("%s: EncodeIR: %v", c.Name(), err)
		}
		rt := New(native.NewNativePlatform())
		got, err := rt.LoadIR(data, c, types.TInteger)
		if err != nil {
			t.Fatalf("%s: LoadIR: %v", c.Name(), err)
		}
		defer got.Release()
		if got.Kind() != ir.KLiteral || got.Literal().Int() != 42 {
			t.Fatalf("%s: LoadIR round trip mismatch: got kind %v", c.Name(), got.Kind())
		}
	}
}

func TestLoadIRRejectsTypeMismatch(t *testing.T) {
	v := values.NewInteger(42)
	node := ir.Literal(types.TInteger, v)
	v.Release()
	defer node.Release()

	data, err := EncodeIR(node, codec.JSON)
	if err != nil {
		t.Fatalf("EncodeIR: %v", err)
	}
	rt := New(native.NewNativePlatform())
	if _, err := rt.LoadIR(data, codec.JSON, types.TString); err == nil {
		t.Fatal("expected type mismatch error, got nil")
	}
}

func TestInvokeCallsIdentityFunction(t *testing.T) {
	rt := New(native.NewNativePlatform())

	funcType := types.NewFunction([]*types.Type{types.TInteger}, types.TInteger)
	defer funcType.Release()

	body := ir.Return(types.TInteger, ir.Variable(types.TInteger, "x"))
	defer body.Release()

	closure := eval.NewClosure(rt.RootEnvironment(), []string{"x"}, body, funcType, false)
	fn := values.NewFunction(closure)
	defer fn.Release()

	arg := values.NewInteger(9)
	result, err := rt.Invoke(fn, []*values.Value{arg})
	if err != nil {
		t.Fatalf("Invoke: %v", err)
	}
	defer result.Release()
	if result.Int() != 9 {
		t.Fatalf("expected 9, got %v", result.Int())
	}
}

func TestInvokeRejectsArityMismatch(t *testing.T) {
	rt := New(native.NewNativePlatform())

	funcType := types.NewFunction([]*types.Type{types.TInteger}, types.TInteger)
	defer funcType.Release()

	body := ir.Return(types.TInteger, ir.Variable(types.TInteger, "x"))
	defer body.Release()

	closure := eval.NewClosure(rt.RootEnvironment(), []string{"x"}, body, funcType, false)
	fn := values.NewFunction(closure)
	defer fn.Release()

	if _, err := rt.Invoke(fn, nil); err == nil {
		t.Fatal("expected arity mismatch error, got nil")
	}
}

func TestEncodeDelegatesToCodec(t *testing.T) {
	rt := New(native.NewNativePlatform())
	v := values.NewInteger(5)
	defer v.Release()

	data, err := rt.Encode(v, types.TInteger, codec.Text)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if string(data) != "5" {
		t.Fatalf("expected \"5\", got %q", data)
	}
}
