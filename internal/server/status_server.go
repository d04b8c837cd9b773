package server

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"git.appkode.ru/pub/go/failure"

	"empire_trader/internal/domain"
	"empire_trader/pkg/errcodes"
	"empire_trader/pkg/httpx/reply"
	"empire_trader/pkg/httpx/req"
)

const defaultTradesLimit = 50

func (s Server) getV1Deposits(w http.ResponseWriter, r *http.Request) error {
	deposits := s.deposits.Deposits()

	out := make([]restDeposit, 0, len(deposits))
	for _, d := range deposits {
		out = append(out, newRESTDeposit(d))
	}

	reply.JSON(r.Context(), w, http.StatusOK, out)

	return nil
}

func (s Server) getV1AccountInventory(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()

	accountID, err := strconv.ParseInt(r.PathValue("accountID"), 10, 64)
	if err != nil {
		return failure.NewInvalidArgumentError(
			fmt.Sprintf("bad account id: %v", err),
			failure.WithCode(errcodes.ValidationError),
		)
	}

	inventory, err := s.market.UserInventory(ctx, accountID)
	if err != nil {
		return asHTTPError(fmt.Errorf("market.UserInventory: %w", err))
	}

	out := make([]restInventoryItem, 0, len(inventory.Items))
	for _, item := range inventory.Items {
		out = append(out, newRESTInventoryItem(item))
	}

	reply.JSON(ctx, w, http.StatusOK, out)

	return nil
}

type confirmationRequest struct {
	AccountID int64 `json:"account_id" validate:"required"`
	DepositID int64 `json:"deposit_id" validate:"required"`
}

func (s Server) postV1Confirmation(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()

	var request confirmationRequest
	if err := req.Read(r, &request); err != nil {
		return fmt.Errorf("req.Read: %w", err)
	}

	if err := s.market.ConfirmTrade(ctx, request.AccountID, request.DepositID); err != nil {
		return asHTTPError(fmt.Errorf("market.ConfirmTrade: %w", err))
	}

	reply.OK(w)

	return nil
}

func (s Server) getV1Trades(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()

	if s.trades == nil {
		reply.JSON(ctx, w, http.StatusOK, []restTrade{})
		return nil
	}

	limit := defaultTradesLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			return failure.NewInvalidArgumentError(
				"limit must be a positive integer",
				failure.WithCode(errcodes.ValidationError),
			)
		}
		limit = parsed
	}

	trades, err := s.trades.ListRecent(ctx, limit)
	if err != nil {
		return fmt.Errorf("trades.ListRecent: %w", err)
	}

	out := make([]restTrade, 0, len(trades))
	for _, t := range trades {
		out = append(out, newRESTTrade(t))
	}

	reply.JSON(ctx, w, http.StatusOK, out)

	return nil
}

// asHTTPError lifts domain error codes into the failure categories the
// reply layer maps to status codes.
func asHTTPError(err error) error {
	var appErr *domain.AppError
	if !errors.As(err, &appErr) {
		return err
	}

	switch appErr.Code {
	case errcodes.AccountNotFound, errcodes.DepositNotFound:
		return failure.NewNotFoundErrorFromError(err, failure.WithCode(appErr.Code))
	default:
		return err
	}
}
