package classify

// operation is the semantic name of a known contract function. Values use
// underscore separators; Detail strings replace them with spaces.
type operation string

const (
	opTransfer          operation = "erc20_transfer"
	opTransferFrom      operation = "erc20_transfer_from"
	opApprove           operation = "erc20_approve"
	opIncreaseAllowance operation = "increase_allowance"
	opDecreaseAllowance operation = "decrease_allowance"
	opPermit            operation = "permit"
	opSwap              operation = "token_swap"
	opStake             operation = "stake"
	opDeposit           operation = "deposit"
	opUnknown           operation = "unknown"
)

// selectorOps maps lowercased 4-byte selectors ("0x" + 8 hex chars) to
// operations. Fixed at compile time; extending classification means adding
// a row here, not new code paths.
var selectorOps = map[string]operation{
	// ERC-20
	"0xa9059cbb": opTransfer,          // transfer(address,uint256)
	"0x23b872dd": opTransferFrom,      // transferFrom(address,address,uint256)
	"0x095ea7b3": opApprove,           // approve(address,uint256)
	"0x39509351": opIncreaseAllowance, // increaseAllowance(address,uint256)
	"0xa457c2d7": opDecreaseAllowance, // decreaseAllowance(address,uint256)
	"0xd505accf": opPermit,            // permit(address,address,uint256,uint256,uint8,bytes32,bytes32)

	// DEX routers
	"0x38ed1739": opSwap, // swapExactTokensForTokens (Uniswap V2)
	"0x8803dbee": opSwap, // swapTokensForExactTokens (Uniswap V2)
	"0x7ff36ab5": opSwap, // swapExactETHForTokens (Uniswap V2)
	"0x18cbafe5": opSwap, // swapExactTokensForETH (Uniswap V2)
	"0x414bf389": opSwap, // exactInputSingle (Uniswap V3)
	"0xc04b8d59": opSwap, // exactInput (Uniswap V3)

	// Staking / vaults
	"0x3a4b66f1": opStake,   // stake()
	"0xa694fc3a": opStake,   // stake(uint256)
	"0xd0e30db0": opDeposit, // deposit()
	"0xb6b55f25": opDeposit, // deposit(uint256)
}

// verdict pairs a category with its tone. Tone is a pure function of
// category: approval-family warns, login is safe, everything else informs.
type verdict struct {
	Category Category
	Tone     Tone
}

// opVerdicts maps operations to their category and tone.
var opVerdicts = map[operation]verdict{
	opTransfer:          {CategoryPayment, ToneInfo},
	opTransferFrom:      {CategoryPayment, ToneInfo},
	opApprove:           {CategoryApproval, ToneWarn},
	opIncreaseAllowance: {CategoryApproval, ToneWarn},
	opDecreaseAllowance: {CategoryApproval, ToneWarn},
	opPermit:            {CategoryApproval, ToneWarn},
	opSwap:              {CategorySwap, ToneInfo},
	opStake:             {CategoryStake, ToneInfo},
	opDeposit:           {CategoryDeposit, ToneInfo},
	opUnknown:           {CategoryContractCall, ToneInfo},
}
