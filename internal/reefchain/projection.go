package reefchain

import "strings"

// Projection helpers turn Reef's GraphQL index shapes into the Ethereum
// block/receipt/log shapes spec §4.5 describes.

// block is the GraphQL projection of a finalized Reef block.
type block struct {
	ID        string `json:"id"`
	Hash      string `json:"hash"`
	ParentHash string `json:"parentHash"`
	Height    uint64 `json:"height"`
	StateRoot string `json:"stateRoot"`
	Timestamp string `json:"timestamp"`
	Finalized bool   `json:"finalized"`
}

// evmEvent is a single evm-tagged Substrate event from an extrinsic.
type evmEvent struct {
	Section string                 `json:"section"`
	Method  string                 `json:"method"`
	Data    map[string]interface{} `json:"data"`
}

// extrinsic carries the evm events of a single Reef transaction.
type extrinsic struct {
	Hash   string     `json:"hash"`
	Index  int        `json:"index"`
	Signer string     `json:"signer"`
	Events []evmEvent `json:"events"`
}

// ProjectBlock builds the Ethereum eth_getBlockByNumber shape (spec §4.5).
func ProjectBlock(b block, txHashes []string) map[string]interface{} {
	txs := make([]interface{}, len(txHashes))
	for i, h := range txHashes {
		txs[i] = h
	}
	return map[string]interface{}{
		"hash":         b.Hash,
		"parentHash":   b.ParentHash,
		"number":       hexUint(b.Height),
		"stateRoot":    b.StateRoot,
		"timestamp":    unixSecondsHex(b.Timestamp),
		"nonce":        "0x0000000000000000",
		"difficulty":   "0x0",
		"gasLimit":     "0xffffffff",
		"gasUsed":      "0xffffffff",
		"miner":        "0x0000000000000000000000000000000000000000",
		"extraData":    "0x",
		"transactions": txs,
	}
}

// eventField reads a named field out of an evm event's data payload.
func eventField(ev evmEvent, field string) (string, bool) {
	v, ok := ev.Data[field].(string)
	return v, ok
}

// ProjectReceipt builds the Ethereum eth_getTransactionReceipt shape from
// an extrinsic's evm-tagged events (spec §4.5).
func ProjectReceipt(ext extrinsic, blockHash string, blockNumber uint64, partialFee, weight float64) map[string]interface{} {
	status := "0x0"
	var contractAddress interface{}
	logs := make([]interface{}, 0, len(ext.Events))

	for _, ev := range ext.Events {
		if ev.Section != "evm" {
			continue
		}
		switch ev.Method {
		case "Executed":
			status = "0x1"
		case "ExecutedFailed":
			status = "0x0"
		case "Created":
			if addr, ok := eventField(ev, "contractAddress"); ok {
				contractAddress = addr
			}
		case "Log":
			logIdx := len(logs)
			log := map[string]interface{}{
				"logIndex":         hexUint(uint64(logIdx)),
				"transactionIndex": hexUint(uint64(ext.Index)),
				"transactionHash":  ext.Hash,
				"blockHash":        blockHash,
				"blockNumber":      hexUint(blockNumber),
			}
			for k, v := range ev.Data {
				log[k] = v
			}
			logs = append(logs, log)
		}
	}

	effectiveGasPrice := "0x0"
	if weight != 0 {
		effectiveGasPrice = hexUint(uint64(partialFee / weight))
	}

	return map[string]interface{}{
		"transactionHash":   ext.Hash,
		"transactionIndex":  hexUint(uint64(ext.Index)),
		"blockHash":         blockHash,
		"blockNumber":       hexUint(blockNumber),
		"from":              ext.Signer,
		"contractAddress":   contractAddress,
		"status":            status,
		"logs":              logs,
		"effectiveGasPrice": effectiveGasPrice,
	}
}

// ProjectTransaction builds the Ethereum eth_getTransactionByHash shape
// from a finalized extrinsic's identifying fields (spec §4.5). Reef's
// index does not carry to/value/input for an arbitrary extrinsic outside
// its evm events, so those fields are reported as absent/zero.
func ProjectTransaction(hash, blockHash string, blockNumber uint64, index int, from string) map[string]interface{} {
	return map[string]interface{}{
		"hash":             hash,
		"blockHash":        blockHash,
		"blockNumber":      hexUint(blockNumber),
		"transactionIndex": hexUint(uint64(index)),
		"from":             from,
		"nonce":            "0x0",
		"value":            "0x0",
		"input":            "0x",
	}
}

func hexUint(v uint64) string {
	return "0x" + uintToHex(v)
}

func uintToHex(v uint64) string {
	if v == 0 {
		return "0"
	}
	const digits = "0123456789abcdef"
	var buf []byte
	for v > 0 {
		buf = append([]byte{digits[v%16]}, buf...)
		v /= 16
	}
	return string(buf)
}

// unixSecondsHex converts the GraphQL index's timestamp field, a decimal
// unix-seconds string, into hex (spec §4.5 "timestamp (unix seconds)").
// Any other format, RFC3339 included, yields "0x0".
func unixSecondsHex(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "0x0"
	}
	var n uint64
	for _, c := range raw {
		if c < '0' || c > '9' {
			return "0x0"
		}
		n = n*10 + uint64(c-'0')
	}
	return hexUint(n)
}
