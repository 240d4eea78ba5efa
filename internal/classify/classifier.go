package classify

import (
	"math/big"
	"strings"
)

// selectorLen is "0x" plus 8 hex chars — the 4-byte function selector.
const selectorLen = 10

// Classify maps a signing request to a classification. Total function:
// unrecognized input degrades to a generic contract call, it never fails.
//
// Precedence: message kinds are terminal; for transactions the selector
// tables decide first, then the bare-value-transfer override, then the
// unlimited-approval override, which always wins.
func Classify(req SigningRequest) Classification {
	switch req.Kind {
	case KindSignInMessage:
		return Classification{
			Category: CategoryLogin,
			Tone:     ToneSafe,
			Detail:   "sign-in with wallet message",
		}
	case KindPersonalMessage:
		return Classification{
			Category: CategoryData,
			Tone:     ToneInfo,
			Detail:   "personal message signature",
		}
	}

	op := lookupOperation(req.Calldata)
	v := opVerdicts[op]

	c := Classification{
		Category: v.Category,
		Tone:     v.Tone,
		Detail:   detailFor(op),
	}

	// Override A: zero calldata with nonzero value is always a plain
	// payment, whatever the selector table said.
	if isEmptyCalldata(req.Calldata) && !isZeroValue(req.Value) {
		c.Category = CategoryPayment
		c.Tone = ToneInfo
	}

	// Override B: a caller-asserted unlimited approval outranks everything,
	// including Override A.
	if req.ApprovalUnlimited {
		c.Category = CategoryInfiniteApproval
		c.Tone = ToneWarn
	}

	return c
}

// lookupOperation resolves the 4-byte selector from calldata. Calldata
// shorter than a full selector (including empty) never partially matches.
func lookupOperation(calldata string) operation {
	if len(calldata) < selectorLen || !strings.HasPrefix(calldata, "0x") {
		return opUnknown
	}
	selector := strings.ToLower(calldata[:selectorLen])
	if op, ok := selectorOps[selector]; ok {
		return op
	}
	return opUnknown
}

// detailFor renders the operation name as a human label. Unknown
// operations carry no detail.
func detailFor(op operation) string {
	if op == opUnknown {
		return ""
	}
	return strings.ReplaceAll(string(op), "_", " ")
}

// isEmptyCalldata reports whether calldata carries no payload: absent,
// the bare "0x" prefix, or all-zero bytes after the prefix.
func isEmptyCalldata(calldata string) bool {
	if calldata == "" || calldata == "0x" {
		return true
	}
	body := strings.TrimPrefix(calldata, "0x")
	for _, ch := range body {
		if ch != '0' {
			return false
		}
	}
	return true
}

// isZeroValue reports whether a hex-encoded native amount is absent or zero.
// Unparseable values are treated as zero rather than failing.
func isZeroValue(value string) bool {
	if value == "" {
		return true
	}
	body := strings.TrimPrefix(strings.ToLower(value), "0x")
	if body == "" {
		return true
	}
	n, ok := new(big.Int).SetString(body, 16)
	if !ok {
		return true
	}
	return n.Sign() == 0
}
