package api

import (
	"context"
	"net/http"
	"sync"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/kyokan/portcullis/internal/conv"
	"github.com/kyokan/portcullis/internal/logger"
	"github.com/kyokan/portcullis/internal/transport"
	"github.com/kyokan/portcullis/pkg/channel"
	"github.com/kyokan/portcullis/pkg/crypto"
	"github.com/kyokan/portcullis/pkg/transfer"
	"go.uber.org/zap"
)

var psLog *zap.SugaredLogger

func init() {
	psLog = logger.Logger.Named("payment-service")
}

// BlockSource reports the chain height lock expirations are derived from.
type BlockSource interface {
	BlockNumber(ctx context.Context) (uint64, error)
}

type PaymentService struct {
	channels *channel.Registry
	sessions *transport.Registry
	factory  *transfer.Factory
	blocks   BlockSource

	mu      sync.Mutex
	secrets map[common.Hash]crypto.Secret
}

func NewPaymentService(
	channels *channel.Registry,
	sessions *transport.Registry,
	factory *transfer.Factory,
	blocks BlockSource,
) *PaymentService {
	return &PaymentService{
		channels: channels,
		sessions: sessions,
		factory:  factory,
		blocks:   blocks,
		secrets:  make(map[common.Hash]crypto.Secret),
	}
}

type InitiateArgs struct {
	Initiator  string
	Amount     string
	SecretHash string
}

type InitiateReply struct {
	Status     string
	MessageID  uint64
	PaymentID  uint64
	Nonce      uint64
	LocksRoot  string
	SecretHash string
}

func (p *PaymentService) Initiate(r *http.Request, args *InitiateArgs, reply *InitiateReply) error {
	psLog.Infow("received initiate request",
		"initiator", args.Initiator,
		"amount", args.Amount,
	)

	initiator := common.HexToAddress(args.Initiator)

	amount, err := conv.StringToBig(args.Amount)

	if err != nil {
		return err
	}

	var secretHash common.Hash

	if args.SecretHash != "" {
		b, err := conv.HexToBytes32(args.SecretHash)

		if err != nil {
			return err
		}

		secretHash = common.BytesToHash(b[:])
	}

	state, err := p.channels.ForInitiator(initiator)

	if err != nil {
		return err
	}

	session, err := p.sessions.SessionFor(initiator)

	if err != nil {
		return err
	}

	blockNumber, err := p.blocks.BlockNumber(r.Context())

	if err != nil {
		return err
	}

	state.Lock()
	defer state.Unlock()

	msg, autogen, proposal, err := p.factory.CreateLockedTransfer(
		blockNumber,
		state,
		amount,
		secretHash,
		initiator,
		state.PartnerState.Address,
	)

	if err != nil {
		psLog.Errorw("failed to construct locked transfer",
			"initiator", args.Initiator,
			"err", err.Error(),
		)
		return err
	}

	if err := session.Deliver(r.Context(), msg); err != nil {
		return err
	}

	if err := state.OurState.Commit(proposal); err != nil {
		return err
	}

	if autogen.Secret != (crypto.Secret{}) {
		p.mu.Lock()
		p.secrets[autogen.SecretHash] = autogen.Secret
		p.mu.Unlock()
	}

	reply.Status = StatusOk
	reply.MessageID = msg.MessageID
	reply.PaymentID = msg.PaymentID
	reply.Nonce = msg.Nonce
	reply.LocksRoot = hexutil.Encode(msg.LocksRoot[:])
	reply.SecretHash = hexutil.Encode(autogen.SecretHash[:])

	psLog.Infow("processed initiate request",
		"initiator", args.Initiator,
		"nonce", msg.Nonce,
		"locksRoot", reply.LocksRoot,
	)
	return nil
}
