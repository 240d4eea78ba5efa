package provider

import (
	"context"
	"crypto/ecdsa"
	"encoding/hex"
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/ethclient"
)

// DefaultGasLimit is used when gas estimation fails.
const DefaultGasLimit = uint64(250000)

// EthClient abstracts the go-ethereum client for testing
type EthClient interface {
	PendingNonceAt(ctx context.Context, account common.Address) (uint64, error)
	SuggestGasPrice(ctx context.Context) (*big.Int, error)
	EstimateGas(ctx context.Context, call ethereum.CallMsg) (uint64, error)
	SendTransaction(ctx context.Context, tx *types.Transaction) error
	Close()
}

// Config for creating an Ethereum provider
type Config struct {
	RPCURL     string
	PrivateKey string // Hex string, with or without 0x prefix
	ChainID    int64
}

// Option configures the provider
type Option func(*EthProvider)

// WithClient sets a custom Ethereum client (useful for testing)
func WithClient(client EthClient) Option {
	return func(p *EthProvider) {
		p.client = client
	}
}

// EthProvider signs and sends through a real node with a local key.
type EthProvider struct {
	client     EthClient
	privateKey *ecdsa.PrivateKey
	address    common.Address
	chainID    *big.Int
}

// Compile-time interface check
var _ Provider = (*EthProvider)(nil)

// NewEth creates a node-backed provider.
func NewEth(cfg Config, opts ...Option) (*EthProvider, error) {
	if err := validateConfig(cfg); err != nil {
		return nil, err
	}

	privateKey, err := crypto.HexToECDSA(strings.TrimPrefix(cfg.PrivateKey, "0x"))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPrivateKey, err)
	}

	publicKey, ok := privateKey.Public().(*ecdsa.PublicKey)
	if !ok {
		return nil, fmt.Errorf("%w: failed to derive public key", ErrInvalidPrivateKey)
	}

	p := &EthProvider{
		privateKey: privateKey,
		address:    crypto.PubkeyToAddress(*publicKey),
		chainID:    big.NewInt(cfg.ChainID),
	}

	for _, opt := range opts {
		opt(p)
	}

	// Connect to RPC if no client provided
	if p.client == nil {
		client, err := ethclient.Dial(cfg.RPCURL)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrRPCConnection, err)
		}
		p.client = client
	}

	return p, nil
}

func validateConfig(cfg Config) error {
	if cfg.RPCURL == "" {
		return fmt.Errorf("%w: RPC URL required", ErrRPCConnection)
	}
	key := strings.TrimPrefix(cfg.PrivateKey, "0x")
	if len(key) != 64 {
		return fmt.Errorf("%w: must be 64 hex characters", ErrInvalidPrivateKey)
	}
	if cfg.ChainID == 0 {
		return fmt.Errorf("chain ID required")
	}
	return nil
}

// Available always reports true for a connected node provider.
func (p *EthProvider) Available() bool { return true }

// Address returns the provider's account address.
func (p *EthProvider) Address() string { return p.address.Hex() }

// RequestAccounts returns the local key's address.
func (p *EthProvider) RequestAccounts(ctx context.Context) (string, error) {
	return p.address.Hex(), nil
}

// SignPersonalMessage signs message per EIP-191 ("\x19Ethereum Signed
// Message:\n" prefix) and returns the hex signature.
func (p *EthProvider) SignPersonalMessage(ctx context.Context, message string, account string) (string, error) {
	if account != "" && !strings.EqualFold(account, p.address.Hex()) {
		return "", fmt.Errorf("%w: account %s not held by this provider", ErrInvalidAddress, account)
	}

	prefixed := fmt.Sprintf("\x19Ethereum Signed Message:\n%d%s", len(message), message)
	digest := crypto.Keccak256([]byte(prefixed))

	sig, err := crypto.Sign(digest, p.privateKey)
	if err != nil {
		return "", &CallError{Op: "sign_message", Err: err}
	}

	// Shift recovery id to the 27/28 convention wallets expect
	sig[64] += 27
	return "0x" + hex.EncodeToString(sig), nil
}

// SendTransaction assembles, signs, and submits a transaction.
func (p *EthProvider) SendTransaction(ctx context.Context, to string, value string, calldata string) (string, error) {
	var toAddr *common.Address
	if to != "" {
		if !common.IsHexAddress(to) {
			return "", fmt.Errorf("%w: %s", ErrInvalidAddress, to)
		}
		a := common.HexToAddress(to)
		toAddr = &a
	}

	amount, err := parseHexValue(value)
	if err != nil {
		return "", err
	}

	data, err := parseCalldata(calldata)
	if err != nil {
		return "", err
	}

	nonce, err := p.client.PendingNonceAt(ctx, p.address)
	if err != nil {
		return "", &CallError{Op: "nonce", Err: err}
	}

	gasPrice, err := p.client.SuggestGasPrice(ctx)
	if err != nil {
		return "", &CallError{Op: "gas_price", Err: err}
	}

	gasLimit, err := p.client.EstimateGas(ctx, ethereum.CallMsg{
		From:  p.address,
		To:    toAddr,
		Value: amount,
		Data:  data,
	})
	if err != nil {
		// Use default if estimation fails
		gasLimit = DefaultGasLimit
	}

	tx := types.NewTx(&types.LegacyTx{
		Nonce:    nonce,
		To:       toAddr,
		Value:    amount,
		Gas:      gasLimit,
		GasPrice: gasPrice,
		Data:     data,
	})

	signedTx, err := types.SignTx(tx, types.NewEIP155Signer(p.chainID), p.privateKey)
	if err != nil {
		return "", &CallError{Op: "sign", Err: err}
	}

	if err := p.client.SendTransaction(ctx, signedTx); err != nil {
		return "", &CallError{Op: "send", TxHash: signedTx.Hash().Hex(), Err: err}
	}

	return signedTx.Hash().Hex(), nil
}

// Close releases the underlying client connection.
func (p *EthProvider) Close() {
	if p.client != nil {
		p.client.Close()
	}
}

// parseHexValue decodes a hex-encoded native amount; empty means zero.
func parseHexValue(value string) (*big.Int, error) {
	if value == "" || value == "0x" {
		return big.NewInt(0), nil
	}
	body := strings.TrimPrefix(strings.ToLower(value), "0x")
	n, ok := new(big.Int).SetString(body, 16)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrInvalidValue, value)
	}
	return n, nil
}

// parseCalldata decodes "0x"-prefixed calldata; empty or "0x" means none.
func parseCalldata(calldata string) ([]byte, error) {
	if calldata == "" || calldata == "0x" {
		return nil, nil
	}
	data, err := hex.DecodeString(strings.TrimPrefix(calldata, "0x"))
	if err != nil {
		return nil, fmt.Errorf("provider: invalid calldata: %w", err)
	}
	return data, nil
}
