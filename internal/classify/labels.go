package classify

// actionLabels maps every category to the sentence shown on the approval
// button. Exhaustive over the Category enumeration.
var actionLabels = map[Category]string{
	CategoryPayment:          "Send payment",
	CategoryApproval:         "Grant token spending allowance",
	CategoryInfiniteApproval: "Grant unlimited token spending",
	CategorySwap:             "Swap tokens",
	CategoryStake:            "Stake funds",
	CategoryDeposit:          "Deposit funds",
	CategoryLogin:            "Sign in with your wallet",
	CategoryData:             "Sign a message",
	CategoryContractCall:     "Contract interaction",
}

// ActionLabel returns the human action sentence for a category.
// Unknown categories fall back to the generic contract label, so the
// result is never empty.
func ActionLabel(c Category) string {
	if label, ok := actionLabels[c]; ok {
		return label
	}
	return "Contract interaction"
}

// AllCategories lists every category tag, in presentation order.
func AllCategories() []Category {
	return []Category{
		CategoryPayment,
		CategoryApproval,
		CategoryInfiniteApproval,
		CategorySwap,
		CategoryStake,
		CategoryDeposit,
		CategoryLogin,
		CategoryData,
		CategoryContractCall,
	}
}
