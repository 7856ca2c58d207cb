package confluxchain

import (
	"encoding/json"

	"github.com/ethereum/go-ethereum/common"

	"github.com/stable-net/web3-jsonrpc-gateway/internal/gwconfig"
	"github.com/stable-net/web3-jsonrpc-gateway/internal/gwerrors"
)

// RewriteParams implements spec §4.4's parameter-rewriting rules, keyed by
// the *original* eth_* method name (spec §4.1 step 1's stated asymmetry).
func RewriteParams(originalMethod string, params json.RawMessage, cfg *gwconfig.BackendConfig, networkID uint32) (json.RawMessage, *gwerrors.GatewayError) {
	var args []interface{}
	if len(params) > 0 {
		if err := json.Unmarshal(params, &args); err != nil {
			return nil, gwerrors.MalformedRequest("invalid params: %v", err)
		}
	}

	switch originalMethod {
	case "eth_call", "eth_estimateGas", "eth_sendTransaction":
		if len(args) > 0 {
			if obj, ok := args[0].(map[string]interface{}); ok {
				if gerr := translateTxObjectAddrs(obj, networkID); gerr != nil {
					return nil, gerr
				}
			}
		}
		if len(args) > 1 {
			if tag, ok := args[1].(string); ok {
				args[1] = TranslateTag(tag, cfg)
			}
		}
	case "eth_getBalance", "eth_getCode", "eth_getTransactionCount":
		if len(args) > 0 {
			if gerr := translateAddrArg(args, 0, networkID); gerr != nil {
				return nil, gerr
			}
		}
		if len(args) > 1 {
			if tag, ok := args[1].(string); ok {
				args[1] = TranslateTag(tag, cfg)
			}
		}
	case "eth_getBlockByNumber":
		if len(args) > 0 {
			if tag, ok := args[0].(string); ok {
				args[0] = TranslateTag(tag, cfg)
			}
		}
	case "eth_sign":
		if len(args) > 0 {
			if gerr := translateAddrArg(args, 0, networkID); gerr != nil {
				return nil, gerr
			}
		}
	}

	out, err := json.Marshal(args)
	if err != nil {
		return nil, gwerrors.Wrap(err)
	}
	return out, nil
}

func translateAddrArg(args []interface{}, idx int, networkID uint32) *gwerrors.GatewayError {
	s, ok := args[idx].(string)
	if !ok {
		return nil
	}
	addr := common.HexToAddress(s)
	args[idx] = EncodeAddress(addr, networkID)
	return nil
}

func translateTxObjectAddrs(obj map[string]interface{}, networkID uint32) *gwerrors.GatewayError {
	for _, field := range []string{"from", "to"} {
		v, ok := obj[field].(string)
		if !ok || v == "" {
			continue
		}
		addr := common.HexToAddress(v)
		obj[field] = EncodeAddress(addr, networkID)
	}
	return nil
}
