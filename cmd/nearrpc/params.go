package main

import (
	"fmt"
	"io"
	"os"
	"reflect"
	"strings"

	"github.com/tidwall/jsonc"

	"github.com/near/near-jsonrpc-go/pkg/codec"
	"github.com/near/near-jsonrpc-go/pkg/rpc"
	"github.com/near/near-jsonrpc-go/pkg/value"
)

// paramTypes maps each method to the Go shape of its params. Methods absent
// from the map take no params.
var paramTypes = map[rpc.Method]reflect.Type{
	rpc.BlockMethod:                             reflect.TypeFor[rpc.BlockReference](),
	rpc.BlockEffectsMethod:                      reflect.TypeFor[rpc.BlockReference](),
	rpc.ExperimentalChangesInBlockMethod:        reflect.TypeFor[rpc.BlockReference](),
	rpc.ExperimentalProtocolConfigMethod:        reflect.TypeFor[rpc.BlockReference](),
	rpc.ChunkMethod:                             reflect.TypeFor[rpc.ChunkReference](),
	rpc.ExperimentalCongestionLevelMethod:       reflect.TypeFor[rpc.ChunkReference](),
	rpc.ChangesMethod:                           reflect.TypeFor[rpc.StateChangesRequest](),
	rpc.ExperimentalChangesMethod:               reflect.TypeFor[rpc.StateChangesRequest](),
	rpc.QueryMethod:                             reflect.TypeFor[rpc.QueryRequest](),
	rpc.SendTxMethod:                            reflect.TypeFor[rpc.SendTxRequest](),
	rpc.BroadcastTxAsyncMethod:                  reflect.TypeFor[rpc.SendTxRequest](),
	rpc.BroadcastTxCommitMethod:                 reflect.TypeFor[rpc.SendTxRequest](),
	rpc.TxMethod:                                reflect.TypeFor[rpc.TxStatusRequest](),
	rpc.ExperimentalTxStatusMethod:              reflect.TypeFor[rpc.TxStatusRequest](),
	rpc.ExperimentalReceiptMethod:               reflect.TypeFor[rpc.ReceiptRequest](),
	rpc.GasPriceMethod:                          reflect.TypeFor[rpc.GasPriceRequest](),
	rpc.ValidatorsMethod:                        reflect.TypeFor[rpc.ValidatorsRequest](),
	rpc.ExperimentalValidatorsOrderedMethod:     reflect.TypeFor[rpc.ValidatorsOrderedRequest](),
	rpc.MaintenanceWindowsMethod:                reflect.TypeFor[rpc.MaintenanceWindowsRequest](),
	rpc.ExperimentalMaintenanceWindowsMethod:    reflect.TypeFor[rpc.MaintenanceWindowsRequest](),
	rpc.LightClientProofMethod:                  reflect.TypeFor[rpc.LightClientProofRequest](),
	rpc.ExperimentalLightClientProofMethod:      reflect.TypeFor[rpc.LightClientProofRequest](),
	rpc.ExperimentalLightClientBlockProofMethod: reflect.TypeFor[rpc.LightClientBlockProofRequest](),
	rpc.NextLightClientBlockMethod:              reflect.TypeFor[rpc.NextLightClientBlockRequest](),
}

// readParams returns the params text given on the command line: inline
// JSON, "@path" for a file, or "-" for stdin.
func readParams(arg string, stdin io.Reader) ([]byte, error) {
	switch {
	case arg == "-":
		return io.ReadAll(stdin)
	case strings.HasPrefix(arg, "@"):
		return os.ReadFile(arg[1:])
	default:
		return []byte(arg), nil
	}
}

// parseParams parses text as JSON with comments and checks it against the
// params shape of method. Empty text means no params.
func parseParams(c *codec.Codec, method rpc.Method, text []byte) (value.Value, error) {
	t, typed := paramTypes[method]

	if len(strings.TrimSpace(string(text))) == 0 {
		switch {
		case method == rpc.ExperimentalSplitStorageInfoMethod:
			return value.Object(), nil
		case method == rpc.ValidatorsMethod:
			return value.String(string(rpc.Latest)), nil
		case typed:
			return value.Value{}, fmt.Errorf("%s requires params", method)
		default:
			return value.Null(), nil
		}
	}

	params, err := value.Parse(jsonc.ToJSON(text))
	if err != nil {
		return value.Value{}, err
	}

	if typed {
		target := reflect.New(t)
		if err := c.Decode(params, target.Interface()); err != nil {
			return value.Value{}, fmt.Errorf("invalid params for %s: %w", method, err)
		}
	}
	return params, nil
}

func isKnownMethod(m rpc.Method) bool {
	for _, known := range rpc.Methods {
		if known == m {
			return true
		}
	}
	return false
}
