// Package http is the REST surface of the service. Requests are checked
// against the embedded OpenAPI contract, authenticated with bearer tokens and
// turned into commands and queries.
package http

import (
	"context"
	"io"
	"net/http"
	"time"

	"empi/internal/adapters/in/http/auth"
	"empi/internal/core/application/usecases/commands"
	"empi/internal/core/application/usecases/queries"
	"empi/internal/core/domain/model/kernel"
	"empi/internal/core/domain/model/order"
	"empi/internal/core/domain/model/vat"
	"empi/internal/core/domain/services"
	"empi/internal/pkg/errs"

	"github.com/labstack/echo/v4"
	"github.com/oapi-codegen/runtime"
)

// Handler is any command or query handler.
type Handler[C, R any] interface {
	Handle(ctx context.Context, cmd C) (R, error)
}

// HandlerFunc adapts a function to Handler.
type HandlerFunc[C, R any] func(ctx context.Context, cmd C) (R, error)

func (f HandlerFunc[C, R]) Handle(ctx context.Context, cmd C) (R, error) {
	return f(ctx, cmd)
}

// Handlers groups the use cases the server dispatches to.
type Handlers struct {
	CreateRegularOrder Handler[commands.CreateRegularOrderCommand, commands.OrderResult]
	CreateCustomOrder  Handler[commands.CreateCustomOrderCommand, commands.OrderResult]
	AttachPaymentProof Handler[commands.AttachPaymentProofCommand, commands.OrderResult]
	VerifyPayment      Handler[commands.VerifyPaymentCommand, commands.OrderResult]
	ApproveOrder       Handler[commands.ApproveOrderCommand, commands.OrderResult]
	SetDeadlineTimer   Handler[commands.SetDeadlineTimerCommand, commands.OrderResult]
	StartProduction    Handler[commands.StartProductionCommand, commands.OrderResult]
	MarkReady          Handler[commands.MarkReadyCommand, commands.OrderResult]
	CompleteOrder      Handler[commands.CompleteOrderCommand, commands.OrderResult]
	CancelOrder        Handler[commands.CancelOrderCommand, commands.OrderResult]
	RejectOrder        Handler[commands.RejectOrderCommand, commands.OrderResult]
	SoftDeleteOrder    Handler[commands.SoftDeleteOrderCommand, commands.OrderResult]
	RestoreOrder       Handler[commands.RestoreOrderCommand, commands.OrderResult]

	SubmitQuote Handler[commands.SubmitQuoteCommand, commands.QuoteResult]
	AcceptQuote Handler[commands.AcceptQuoteCommand, commands.QuoteResult]

	RolloverVATPeriod     Handler[commands.RolloverVATPeriodCommand, services.RolloverResult]
	ReconcileVATPeriods   Handler[commands.ReconcileVATPeriodsCommand, []*vat.Period]
	ChangeVATPeriodStatus Handler[commands.ChangeVATPeriodStatusCommand, *vat.Period]

	GetOrder       Handler[queries.GetOrderQuery, queries.OrderResponse]
	ListOrders     Handler[queries.ListOrdersQuery, []queries.OrderResponse]
	ListQuotes     Handler[queries.ListQuotesQuery, []queries.QuoteResponse]
	ListVATPeriods Handler[queries.ListVATPeriodsQuery, []queries.VATPeriodResponse]
	GetVATPeriod   Handler[queries.GetVATPeriodQuery, queries.VATPeriodResponse]
}

// Server coordinates between HTTP handlers and application use cases.
type Server struct {
	h       Handlers
	revoked *auth.RevocationStore
	now     func() time.Time
}

func NewServer(h Handlers, revoked *auth.RevocationStore) *Server {
	return &Server{h: h, revoked: revoked, now: time.Now}
}

func actorOf(ctx echo.Context) (kernel.Actor, error) {
	actor, ok := auth.ActorFrom(ctx)
	if !ok {
		return kernel.Actor{}, echo.NewHTTPError(http.StatusUnauthorized, "missing caller identity")
	}
	return actor, nil
}

func pathParam(ctx echo.Context, name string) (string, error) {
	var value string
	err := runtime.BindStyledParameterWithOptions("simple", name, ctx.Param(name), &value,
		runtime.BindStyledParameterOptions{ParamLocation: runtime.ParamLocationPath, Required: true})
	if err != nil {
		return "", errs.NewValueIsInvalidErrorWithCause(name, err)
	}
	return value, nil
}

// bindBody decodes a JSON body. An empty body leaves dst untouched; whether
// a body is required is enforced by the contract validator.
func bindBody(ctx echo.Context, dst any) error {
	if err := ctx.Bind(dst); err != nil {
		return errs.NewValueIsInvalidErrorWithCause("body", err)
	}
	return nil
}

// CreateRegularOrder handles POST /api/v1/orders/regular.
func (s *Server) CreateRegularOrder(ctx echo.Context) error {
	var body NewRegularOrder
	if err := bindBody(ctx, &body); err != nil {
		return writeError(ctx, err)
	}

	buyer, err := body.Buyer.toDomain()
	if err != nil {
		return writeError(ctx, err)
	}
	items := make([]order.LineItem, 0, len(body.Items))
	for _, li := range body.Items {
		item, err := li.toDomain()
		if err != nil {
			return writeError(ctx, err)
		}
		items = append(items, item)
	}
	discount, err := parseDiscount(body.DiscountPercent)
	if err != nil {
		return writeError(ctx, err)
	}

	cmd, err := commands.NewCreateRegularOrderCommand(buyer, items, discount)
	if err != nil {
		return writeError(ctx, err)
	}
	res, err := s.h.CreateRegularOrder.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return writeError(ctx, err)
	}
	return ctx.JSON(http.StatusCreated, toOrderResult(res))
}

// CreateCustomOrder handles POST /api/v1/orders/custom.
func (s *Server) CreateCustomOrder(ctx echo.Context) error {
	var body NewCustomOrder
	if err := bindBody(ctx, &body); err != nil {
		return writeError(ctx, err)
	}

	buyer, err := body.Buyer.toDomain()
	if err != nil {
		return writeError(ctx, err)
	}
	cmd, err := commands.NewCreateCustomOrderCommand(buyer, body.Description, body.Quantity)
	if err != nil {
		return writeError(ctx, err)
	}
	res, err := s.h.CreateCustomOrder.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return writeError(ctx, err)
	}
	return ctx.JSON(http.StatusCreated, toOrderResult(res))
}

// GetOrders handles GET /api/v1/orders.
func (s *Server) GetOrders(ctx echo.Context) error {
	var (
		status, handler, origin string
		limit, offset           int
	)
	params := ctx.QueryParams()
	for name, dst := range map[string]any{"status": &status, "handler": &handler, "origin": &origin} {
		if err := runtime.BindQueryParameter("form", true, false, name, params, dst); err != nil {
			return writeError(ctx, errs.NewValueIsInvalidErrorWithCause(name, err))
		}
	}
	if err := runtime.BindQueryParameter("form", true, false, "limit", params, &limit); err != nil {
		return writeError(ctx, errs.NewValueIsInvalidErrorWithCause("limit", err))
	}
	if err := runtime.BindQueryParameter("form", true, false, "offset", params, &offset); err != nil {
		return writeError(ctx, errs.NewValueIsInvalidErrorWithCause("offset", err))
	}

	query, err := queries.NewListOrdersQuery(status, handler, origin, limit, offset)
	if err != nil {
		return writeError(ctx, err)
	}
	orders, err := s.h.ListOrders.Handle(ctx.Request().Context(), query)
	if err != nil {
		return writeError(ctx, err)
	}

	response := make([]Order, len(orders))
	for i, o := range orders {
		response[i] = toOrder(o)
	}
	return ctx.JSON(http.StatusOK, response)
}

// GetOrder handles GET /api/v1/orders/{number}.
func (s *Server) GetOrder(ctx echo.Context) error {
	number, err := pathParam(ctx, "number")
	if err != nil {
		return writeError(ctx, err)
	}
	query, err := queries.NewGetOrderQuery(number)
	if err != nil {
		return writeError(ctx, err)
	}
	o, err := s.h.GetOrder.Handle(ctx.Request().Context(), query)
	if err != nil {
		return writeError(ctx, err)
	}
	return ctx.JSON(http.StatusOK, toOrder(o))
}

// AttachPaymentProof handles POST /api/v1/orders/{number}/payment-proof. The
// body is the raw file; its type comes from Content-Type.
func (s *Server) AttachPaymentProof(ctx echo.Context) error {
	actor, err := actorOf(ctx)
	if err != nil {
		return err
	}
	number, err := pathParam(ctx, "number")
	if err != nil {
		return writeError(ctx, err)
	}

	blob, err := io.ReadAll(io.LimitReader(ctx.Request().Body, commands.MaxPaymentProofSize+1))
	if err != nil {
		return writeError(ctx, errs.NewValueIsInvalidErrorWithCause("body", err))
	}
	contentType := ctx.Request().Header.Get(echo.HeaderContentType)

	cmd, err := commands.NewAttachPaymentProofCommand(number, actor, contentType, blob)
	if err != nil {
		return writeError(ctx, err)
	}
	return orderResult(ctx, s.h.AttachPaymentProof, cmd)
}

// VerifyPayment handles POST /api/v1/orders/{number}/payment/verify.
func (s *Server) VerifyPayment(ctx echo.Context) error {
	return transition(ctx, s.h.VerifyPayment, commands.NewVerifyPaymentCommand)
}

// ApproveOrder handles POST /api/v1/orders/{number}/approve.
func (s *Server) ApproveOrder(ctx echo.Context) error {
	var body Approval
	if err := bindBody(ctx, &body); err != nil {
		return writeError(ctx, err)
	}
	return transition(ctx, s.h.ApproveOrder, func(number string, actor kernel.Actor) (commands.ApproveOrderCommand, error) {
		return commands.NewApproveOrderCommand(number, actor, body.Override)
	})
}

// SetDeadlineTimer handles POST /api/v1/orders/{number}/timer.
func (s *Server) SetDeadlineTimer(ctx echo.Context) error {
	var body DeadlineTimer
	if err := bindBody(ctx, &body); err != nil {
		return writeError(ctx, err)
	}
	return transition(ctx, s.h.SetDeadlineTimer, func(number string, actor kernel.Actor) (commands.SetDeadlineTimerCommand, error) {
		return commands.NewSetDeadlineTimerCommand(number, actor, body.Days, body.Hours, body.Override)
	})
}

// StartProduction handles POST /api/v1/orders/{number}/start-production.
func (s *Server) StartProduction(ctx echo.Context) error {
	return transition(ctx, s.h.StartProduction, commands.NewStartProductionCommand)
}

// MarkReady handles POST /api/v1/orders/{number}/ready.
func (s *Server) MarkReady(ctx echo.Context) error {
	return transition(ctx, s.h.MarkReady, commands.NewMarkReadyCommand)
}

// CompleteOrder handles POST /api/v1/orders/{number}/complete.
func (s *Server) CompleteOrder(ctx echo.Context) error {
	return transition(ctx, s.h.CompleteOrder, commands.NewCompleteOrderCommand)
}

// CancelOrder handles POST /api/v1/orders/{number}/cancel.
func (s *Server) CancelOrder(ctx echo.Context) error {
	var body Reason
	if err := bindBody(ctx, &body); err != nil {
		return writeError(ctx, err)
	}
	return transition(ctx, s.h.CancelOrder, func(number string, actor kernel.Actor) (commands.CancelOrderCommand, error) {
		return commands.NewCancelOrderCommand(number, actor, body.Reason)
	})
}

// RejectOrder handles POST /api/v1/orders/{number}/reject.
func (s *Server) RejectOrder(ctx echo.Context) error {
	var body Reason
	if err := bindBody(ctx, &body); err != nil {
		return writeError(ctx, err)
	}
	return transition(ctx, s.h.RejectOrder, func(number string, actor kernel.Actor) (commands.RejectOrderCommand, error) {
		return commands.NewRejectOrderCommand(number, actor, body.Reason)
	})
}

// SoftDeleteOrder handles DELETE /api/v1/orders/{number}.
func (s *Server) SoftDeleteOrder(ctx echo.Context) error {
	return transition(ctx, s.h.SoftDeleteOrder, commands.NewSoftDeleteOrderCommand)
}

// RestoreOrder handles POST /api/v1/orders/{number}/restore.
func (s *Server) RestoreOrder(ctx echo.Context) error {
	return transition(ctx, s.h.RestoreOrder, commands.NewRestoreOrderCommand)
}

// GetQuotes handles GET /api/v1/orders/{number}/quotes.
func (s *Server) GetQuotes(ctx echo.Context) error {
	number, err := pathParam(ctx, "number")
	if err != nil {
		return writeError(ctx, err)
	}
	query, err := queries.NewListQuotesQuery(number)
	if err != nil {
		return writeError(ctx, err)
	}
	quotes, err := s.h.ListQuotes.Handle(ctx.Request().Context(), query)
	if err != nil {
		return writeError(ctx, err)
	}

	response := make([]Quote, len(quotes))
	for i, q := range quotes {
		response[i] = toQuote(q)
	}
	return ctx.JSON(http.StatusOK, response)
}

// SubmitQuote handles POST /api/v1/orders/{number}/quotes.
func (s *Server) SubmitQuote(ctx echo.Context) error {
	actor, err := actorOf(ctx)
	if err != nil {
		return err
	}
	number, err := pathParam(ctx, "number")
	if err != nil {
		return writeError(ctx, err)
	}
	var body NewQuote
	if err = bindBody(ctx, &body); err != nil {
		return writeError(ctx, err)
	}
	terms, err := body.toTerms()
	if err != nil {
		return writeError(ctx, err)
	}

	cmd, err := commands.NewSubmitQuoteCommand(number, actor, terms)
	if err != nil {
		return writeError(ctx, err)
	}
	res, err := s.h.SubmitQuote.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return writeError(ctx, err)
	}
	return ctx.JSON(http.StatusCreated, toQuoteResult(res))
}

// AcceptQuote handles POST /api/v1/orders/{number}/quotes/{quoteId}/accept.
func (s *Server) AcceptQuote(ctx echo.Context) error {
	actor, err := actorOf(ctx)
	if err != nil {
		return err
	}
	number, err := pathParam(ctx, "number")
	if err != nil {
		return writeError(ctx, err)
	}
	rawID, err := pathParam(ctx, "quoteId")
	if err != nil {
		return writeError(ctx, err)
	}
	quoteID, err := kernel.UUIDFromString(rawID)
	if err != nil {
		return writeError(ctx, err)
	}

	cmd, err := commands.NewAcceptQuoteCommand(number, quoteID, actor)
	if err != nil {
		return writeError(ctx, err)
	}
	res, err := s.h.AcceptQuote.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return writeError(ctx, err)
	}
	return ctx.JSON(http.StatusOK, toQuoteResult(res))
}

// GetVATPeriods handles GET /api/v1/vat/periods.
func (s *Server) GetVATPeriods(ctx echo.Context) error {
	var includeArchived bool
	if err := runtime.BindQueryParameter("form", true, false, "includeArchived", ctx.QueryParams(), &includeArchived); err != nil {
		return writeError(ctx, errs.NewValueIsInvalidErrorWithCause("includeArchived", err))
	}

	periods, err := s.h.ListVATPeriods.Handle(ctx.Request().Context(), queries.NewListVATPeriodsQuery(includeArchived))
	if err != nil {
		return writeError(ctx, err)
	}

	response := make([]VATPeriod, len(periods))
	for i, p := range periods {
		response[i] = toVATPeriod(p)
	}
	return ctx.JSON(http.StatusOK, response)
}

// GetVATPeriod handles GET /api/v1/vat/periods/{id}.
func (s *Server) GetVATPeriod(ctx echo.Context) error {
	id, err := pathParam(ctx, "id")
	if err != nil {
		return writeError(ctx, err)
	}
	query, err := queries.NewGetVATPeriodQuery(id)
	if err != nil {
		return writeError(ctx, err)
	}
	p, err := s.h.GetVATPeriod.Handle(ctx.Request().Context(), query)
	if err != nil {
		return writeError(ctx, err)
	}
	return ctx.JSON(http.StatusOK, toVATPeriod(p))
}

// ChangeVATPeriodStatus handles POST /api/v1/vat/periods/{id}/status.
func (s *Server) ChangeVATPeriodStatus(ctx echo.Context) error {
	rawID, err := pathParam(ctx, "id")
	if err != nil {
		return writeError(ctx, err)
	}
	id, err := kernel.UUIDFromString(rawID)
	if err != nil {
		return writeError(ctx, err)
	}
	var body PeriodStatus
	if err = bindBody(ctx, &body); err != nil {
		return writeError(ctx, err)
	}

	cmd, err := commands.NewChangeVATPeriodStatusCommand(id, body.Status)
	if err != nil {
		return writeError(ctx, err)
	}
	p, err := s.h.ChangeVATPeriodStatus.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return writeError(ctx, err)
	}
	return ctx.JSON(http.StatusOK, toVATPeriod(queries.NewVATPeriodResponse(p)))
}

// RolloverVATPeriod handles POST /api/v1/vat/rollover.
func (s *Server) RolloverVATPeriod(ctx echo.Context) error {
	cmd, err := commands.NewRolloverVATPeriodCommand(s.now(), commands.TriggerHTTP)
	if err != nil {
		return writeError(ctx, err)
	}
	res, err := s.h.RolloverVATPeriod.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return writeError(ctx, err)
	}

	response := Rollover{
		Target:  toVATPeriod(queries.NewVATPeriodResponse(res.Target)),
		Created: res.Created,
	}
	for _, p := range res.Closed {
		response.Closed = append(response.Closed, toVATPeriod(queries.NewVATPeriodResponse(p)))
	}
	return ctx.JSON(http.StatusOK, response)
}

// ReconcileVATPeriods handles POST /api/v1/vat/reconcile.
func (s *Server) ReconcileVATPeriods(ctx echo.Context) error {
	cmd, err := commands.NewReconcileVATPeriodsCommand(commands.TriggerHTTP)
	if err != nil {
		return writeError(ctx, err)
	}
	periods, err := s.h.ReconcileVATPeriods.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return writeError(ctx, err)
	}

	response := make([]VATPeriod, len(periods))
	for i, p := range periods {
		response[i] = toVATPeriod(queries.NewVATPeriodResponse(p))
	}
	return ctx.JSON(http.StatusOK, response)
}

// Logout handles POST /api/v1/auth/logout by revoking the presented token.
func (s *Server) Logout(ctx echo.Context) error {
	claims, ok := auth.ClaimsFrom(ctx)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "missing caller identity")
	}
	var expiry time.Time
	if claims.ExpiresAt != nil {
		expiry = claims.ExpiresAt.Time
	}
	s.revoked.Revoke(claims.ID, expiry)
	return ctx.NoContent(http.StatusNoContent)
}

// transition runs an order command built from the path number and the caller.
func transition[C any](
	ctx echo.Context,
	h Handler[C, commands.OrderResult],
	newCommand func(number string, actor kernel.Actor) (C, error),
) error {
	actor, err := actorOf(ctx)
	if err != nil {
		return err
	}
	number, err := pathParam(ctx, "number")
	if err != nil {
		return writeError(ctx, err)
	}
	cmd, err := newCommand(number, actor)
	if err != nil {
		return writeError(ctx, err)
	}
	return orderResult(ctx, h, cmd)
}

func orderResult[C any](ctx echo.Context, h Handler[C, commands.OrderResult], cmd C) error {
	res, err := h.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return writeError(ctx, err)
	}
	return ctx.JSON(http.StatusOK, toOrderResult(res))
}
