package submitter

import (
	"context"
	"errors"
	"fmt"

	"github.com/Layr-Labs/aa-multisig-go/pkg/transactionSigner"
	"github.com/Layr-Labs/aa-multisig-go/pkg/zksync"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"go.uber.org/zap"
)

// Stage tracks a transaction through signing, broadcast and inclusion.
type Stage int

const (
	StageUnsigned Stage = iota
	StageSigned
	StageSubmitted
	StageConfirmed
)

func (s Stage) String() string {
	switch s {
	case StageUnsigned:
		return "unsigned"
	case StageSigned:
		return "signed"
	case StageSubmitted:
		return "submitted"
	case StageConfirmed:
		return "confirmed"
	default:
		return fmt.Sprintf("unknown(%d)", int(s))
	}
}

var (
	ErrTransactionReverted = errors.New("transaction reverted")
	ErrInvalidStage        = errors.New("invalid submission stage")
)

// INetworkSubmitter is the part of the node the submitter writes to.
type INetworkSubmitter interface {
	SendRawTransaction(ctx context.Context, raw []byte) (common.Hash, error)
	WaitMined(ctx context.Context, txHash common.Hash) (*types.Receipt, error)
}

type Submission struct {
	Stage       Stage
	Transaction zksync.Transaction712
	Raw         []byte
	TxHash      common.Hash
	Receipt     *types.Receipt
}

func NewSubmission(tx zksync.Transaction712) *Submission {
	return &Submission{
		Stage:       StageUnsigned,
		Transaction: tx,
	}
}

type Submitter struct {
	network INetworkSubmitter
	logger  *zap.Logger
}

func NewSubmitter(network INetworkSubmitter, logger *zap.Logger) *Submitter {
	return &Submitter{
		network: network,
		logger:  logger,
	}
}

// Sign moves an unsigned submission to signed.
func (s *Submitter) Sign(ctx context.Context, sub *Submission, signer transactionSigner.ITransactionSigner) error {
	if sub.Stage != StageUnsigned {
		return fmt.Errorf("%w: cannot sign a %s transaction", ErrInvalidStage, sub.Stage)
	}
	signed, err := signer.SignTransaction(ctx, sub.Transaction)
	if err != nil {
		return fmt.Errorf("failed to sign transaction: %w", err)
	}
	if !signed.IsSigned() {
		return zksync.ErrEmptyCustomSignature
	}
	sub.Transaction = signed
	sub.Stage = StageSigned
	return nil
}

// Submit serializes and broadcasts a signed submission.
func (s *Submitter) Submit(ctx context.Context, sub *Submission) error {
	if sub.Stage != StageSigned {
		return fmt.Errorf("%w: cannot submit a %s transaction", ErrInvalidStage, sub.Stage)
	}
	if !sub.Transaction.IsSigned() {
		return zksync.ErrEmptyCustomSignature
	}

	raw, err := sub.Transaction.Serialize()
	if err != nil {
		return fmt.Errorf("failed to serialize transaction: %w", err)
	}

	txHash, err := s.network.SendRawTransaction(ctx, raw)
	if err != nil {
		return err
	}

	s.logger.Sugar().Infow("Submitted transaction",
		"from", sub.Transaction.From.Hex(),
		"nonce", sub.Transaction.Nonce,
		"txHash", txHash.Hex(),
	)
	sub.Raw = raw
	sub.TxHash = txHash
	sub.Stage = StageSubmitted
	return nil
}

// Confirm waits for the receipt. A receipt with a failed status is an error, and the
// submission keeps the receipt for inspection.
func (s *Submitter) Confirm(ctx context.Context, sub *Submission) (*types.Receipt, error) {
	if sub.Stage != StageSubmitted {
		return nil, fmt.Errorf("%w: cannot confirm a %s transaction", ErrInvalidStage, sub.Stage)
	}

	receipt, err := s.network.WaitMined(ctx, sub.TxHash)
	if err != nil {
		return nil, fmt.Errorf("failed to wait for transaction %s: %w", sub.TxHash.Hex(), err)
	}
	sub.Receipt = receipt
	if receipt.Status != types.ReceiptStatusSuccessful {
		return receipt, fmt.Errorf("%w: %s in block %v", ErrTransactionReverted, sub.TxHash.Hex(), receipt.BlockNumber)
	}

	s.logger.Sugar().Infow("Transaction confirmed",
		"txHash", sub.TxHash.Hex(),
		"blockNumber", receipt.BlockNumber,
		"gasUsed", receipt.GasUsed,
	)
	sub.Stage = StageConfirmed
	return receipt, nil
}

// SignAndSubmit runs a transaction from unsigned to confirmed.
func (s *Submitter) SignAndSubmit(ctx context.Context, tx zksync.Transaction712, signer transactionSigner.ITransactionSigner) (*Submission, error) {
	sub := NewSubmission(tx)
	if err := s.Sign(ctx, sub, signer); err != nil {
		return sub, err
	}
	if err := s.Submit(ctx, sub); err != nil {
		return sub, err
	}
	if _, err := s.Confirm(ctx, sub); err != nil {
		return sub, err
	}
	return sub, nil
}
