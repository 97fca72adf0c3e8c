package cmd

import (
	"errors"
	"fmt"
	"io"
	"time"

	httpin "empi/internal/adapters/in/http"
	"empi/internal/adapters/in/http/auth"
	"empi/internal/adapters/out/notification"
	"empi/internal/adapters/out/ordernumber"
	"empi/internal/adapters/out/postgres"
	"empi/internal/adapters/out/postgres/evidencerepo"
	"empi/internal/core/application/usecases/commands"
	"empi/internal/core/application/usecases/queries"
	"empi/internal/core/domain/services"
	"empi/internal/core/ports"
	"empi/internal/jobs"

	"github.com/rs/zerolog"
	"gorm.io/gorm"
)

type CompositionRoot struct {
	cfg        Config
	gormDB     *gorm.DB
	uowFactory *postgres.GormUnitOfWorkFactory
	notifier   ports.Notifier
	publisher  *commands.EventPublisher
	numbers    ports.OrderNumberGenerator
	evidence   ports.PaymentEvidenceStore
	accountant services.VATAccountant
	location   *time.Location
	clock      ports.Clock
	logger     zerolog.Logger
	closers    []io.Closer
}

func NewCompositionRoot(cfg Config, gormDB *gorm.DB, logger zerolog.Logger) (*CompositionRoot, error) {
	loc, err := cfg.Location()
	if err != nil {
		return nil, err
	}
	policy, err := services.ParseClosePolicy(cfg.VATClosePolicy)
	if err != nil {
		return nil, err
	}
	accountant, err := services.NewVATAccountant(loc, policy)
	if err != nil {
		return nil, err
	}
	numbers, err := ordernumber.NewSnowflakeGenerator(cfg.OrderNodeID)
	if err != nil {
		return nil, err
	}

	c := &CompositionRoot{
		cfg:        cfg,
		gormDB:     gormDB,
		uowFactory: postgres.NewGormUnitOfWorkFactory(gormDB),
		numbers:    numbers,
		evidence:   evidencerepo.NewGormEvidenceStore(gormDB),
		accountant: accountant,
		location:   loc,
		clock:      ports.SystemClock(),
		logger:     logger,
	}

	c.notifier, err = c.createNotifier()
	if err != nil {
		return nil, err
	}
	c.publisher = commands.NewEventPublisher(
		c.notifier, cfg.NotifyTimeout, logger.With().Str("component", "event_publisher").Logger(),
	)
	return c, nil
}

func (c *CompositionRoot) createNotifier() (ports.Notifier, error) {
	switch c.cfg.Notifier {
	case NotifierKafka:
		n := notification.NewKafkaNotifier(
			notification.NewKafkaWriter(c.cfg.KafkaBrokers, c.cfg.KafkaNotificationTopic),
		)
		c.closers = append(c.closers, n)
		return notification.NewRetryingNotifier(n, c.cfg.NotifyMaxRetries), nil
	case NotifierRabbitMQ:
		n, err := notification.DialRabbitMQ(c.cfg.RabbitMQURL, c.cfg.RabbitMQExchange)
		if err != nil {
			return nil, fmt.Errorf("connect to rabbitmq: %w", err)
		}
		c.closers = append(c.closers, n)
		return notification.NewRetryingNotifier(n, c.cfg.NotifyMaxRetries), nil
	default:
		return notification.NewLogNotifier(c.logger.With().Str("component", "notifier").Logger()), nil
	}
}

// Close releases broker connections.
func (c *CompositionRoot) Close() error {
	var errList []error
	for _, closer := range c.closers {
		errList = append(errList, closer.Close())
	}
	return errors.Join(errList...)
}

func (c *CompositionRoot) orderUoWFactory() commands.OrderUoWFactory {
	return FuncOrderUoWFactory(func() commands.OrderUoW {
		return c.uowFactory.Create()
	})
}

func (c *CompositionRoot) negotiationUoWFactory() commands.NegotiationUoWFactory {
	return FuncNegotiationUoWFactory(func() commands.NegotiationUoW {
		return c.uowFactory.Create()
	})
}

func (c *CompositionRoot) completionUoWFactory() commands.CompletionUoWFactory {
	return FuncCompletionUoWFactory(func() commands.CompletionUoW {
		return c.uowFactory.Create()
	})
}

func (c *CompositionRoot) expenseUoWFactory() commands.ExpenseUoWFactory {
	return FuncExpenseUoWFactory(func() commands.ExpenseUoW {
		return c.uowFactory.CreateGorm()
	})
}

func (c *CompositionRoot) accountingUoWFactory() commands.AccountingUoWFactory {
	return FuncAccountingUoWFactory(func() commands.AccountingUoW {
		return c.uowFactory.Create()
	})
}

func (c *CompositionRoot) CreateCreateRegularOrderCommandHandler() commands.CreateRegularOrderCommandHandler {
	return commands.NewCreateRegularOrderCommandHandler(c.orderUoWFactory(), c.numbers, c.publisher, c.clock)
}

func (c *CompositionRoot) CreateCreateCustomOrderCommandHandler() commands.CreateCustomOrderCommandHandler {
	return commands.NewCreateCustomOrderCommandHandler(c.orderUoWFactory(), c.numbers, c.publisher, c.clock)
}

func (c *CompositionRoot) CreateAttachPaymentProofCommandHandler() commands.AttachPaymentProofCommandHandler {
	return commands.NewAttachPaymentProofCommandHandler(
		c.orderUoWFactory(), c.evidence, c.publisher, c.clock, c.cfg.EvidenceTimeout, c.cfg.RegularAutoApprove,
	)
}

func (c *CompositionRoot) CreateVerifyPaymentCommandHandler() commands.VerifyPaymentCommandHandler {
	return commands.NewVerifyPaymentCommandHandler(c.orderUoWFactory(), c.publisher, c.clock)
}

func (c *CompositionRoot) CreateApproveOrderCommandHandler() commands.ApproveOrderCommandHandler {
	return commands.NewApproveOrderCommandHandler(c.orderUoWFactory(), c.publisher, c.clock)
}

func (c *CompositionRoot) CreateSetDeadlineTimerCommandHandler() commands.SetDeadlineTimerCommandHandler {
	return commands.NewSetDeadlineTimerCommandHandler(c.orderUoWFactory(), c.publisher, c.clock)
}

func (c *CompositionRoot) CreateStartProductionCommandHandler() commands.StartProductionCommandHandler {
	return commands.NewStartProductionCommandHandler(c.orderUoWFactory(), c.publisher, c.clock)
}

func (c *CompositionRoot) CreateMarkReadyCommandHandler() commands.MarkReadyCommandHandler {
	return commands.NewMarkReadyCommandHandler(c.orderUoWFactory(), c.publisher, c.clock)
}

func (c *CompositionRoot) CreateCompleteOrderCommandHandler() commands.CompleteOrderCommandHandler {
	return commands.NewCompleteOrderCommandHandler(c.completionUoWFactory(), c.accountant, c.publisher, c.clock)
}

func (c *CompositionRoot) CreateCancelOrderCommandHandler() commands.CancelOrderCommandHandler {
	return commands.NewCancelOrderCommandHandler(c.orderUoWFactory(), c.publisher, c.clock)
}

func (c *CompositionRoot) CreateRejectOrderCommandHandler() commands.RejectOrderCommandHandler {
	return commands.NewRejectOrderCommandHandler(c.orderUoWFactory(), c.publisher, c.clock)
}

func (c *CompositionRoot) CreateSoftDeleteOrderCommandHandler() commands.SoftDeleteOrderCommandHandler {
	return commands.NewSoftDeleteOrderCommandHandler(c.orderUoWFactory(), c.publisher, c.clock)
}

func (c *CompositionRoot) CreateRestoreOrderCommandHandler() commands.RestoreOrderCommandHandler {
	return commands.NewRestoreOrderCommandHandler(c.orderUoWFactory(), c.publisher, c.clock)
}

func (c *CompositionRoot) CreateNotifyOverdueOrdersCommandHandler() commands.NotifyOverdueOrdersCommandHandler {
	return commands.NewNotifyOverdueOrdersCommandHandler(c.orderUoWFactory(), c.publisher, c.clock)
}

func (c *CompositionRoot) CreateImportLegacyOrderCommandHandler() commands.ImportLegacyOrderCommandHandler {
	return commands.NewImportLegacyOrderCommandHandler(c.orderUoWFactory(), c.numbers)
}

func (c *CompositionRoot) CreateSubmitQuoteCommandHandler() commands.SubmitQuoteCommandHandler {
	return commands.NewSubmitQuoteCommandHandler(c.negotiationUoWFactory(), c.publisher, c.clock)
}

func (c *CompositionRoot) CreateAcceptQuoteCommandHandler() commands.AcceptQuoteCommandHandler {
	return commands.NewAcceptQuoteCommandHandler(
		c.negotiationUoWFactory(), c.publisher, c.clock, c.logger.With().Str("component", "accept_quote").Logger(),
	)
}

func (c *CompositionRoot) CreateRolloverVATPeriodCommandHandler() commands.RolloverVATPeriodCommandHandler {
	return commands.NewRolloverVATPeriodCommandHandler(
		c.accountingUoWFactory(), c.accountant, c.clock, c.logger.With().Str("component", "vat_rollover").Logger(),
	)
}

func (c *CompositionRoot) CreateReconcileVATPeriodsCommandHandler() commands.ReconcileVATPeriodsCommandHandler {
	return commands.NewReconcileVATPeriodsCommandHandler(
		c.accountingUoWFactory(), c.accountant, c.clock, c.logger.With().Str("component", "vat_reconcile").Logger(),
	)
}

func (c *CompositionRoot) CreateChangeVATPeriodStatusCommandHandler() commands.ChangeVATPeriodStatusCommandHandler {
	return commands.NewChangeVATPeriodStatusCommandHandler(c.accountingUoWFactory(), c.clock)
}

func (c *CompositionRoot) CreateGetOrderQueryHandler() queries.GetOrderQueryHandler {
	return queries.NewGetOrderQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateListOrdersQueryHandler() queries.ListOrdersQueryHandler {
	return queries.NewListOrdersQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateListQuotesQueryHandler() queries.ListQuotesQueryHandler {
	return queries.NewListQuotesQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateListVATPeriodsQueryHandler() queries.ListVATPeriodsQueryHandler {
	return queries.NewListVATPeriodsQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateGetVATPeriodQueryHandler() queries.GetVATPeriodQueryHandler {
	return queries.NewGetVATPeriodQueryHandler(c.gormDB)
}

// CreateHTTPHandlers wires every use case the REST surface exposes.
func (c *CompositionRoot) CreateHTTPHandlers() httpin.Handlers {
	createRegular := c.CreateCreateRegularOrderCommandHandler()
	createCustom := c.CreateCreateCustomOrderCommandHandler()
	attachProof := c.CreateAttachPaymentProofCommandHandler()
	verifyPayment := c.CreateVerifyPaymentCommandHandler()
	approve := c.CreateApproveOrderCommandHandler()
	setTimer := c.CreateSetDeadlineTimerCommandHandler()
	startProduction := c.CreateStartProductionCommandHandler()
	markReady := c.CreateMarkReadyCommandHandler()
	complete := c.CreateCompleteOrderCommandHandler()
	cancel := c.CreateCancelOrderCommandHandler()
	reject := c.CreateRejectOrderCommandHandler()
	softDelete := c.CreateSoftDeleteOrderCommandHandler()
	restore := c.CreateRestoreOrderCommandHandler()
	submitQuote := c.CreateSubmitQuoteCommandHandler()
	acceptQuote := c.CreateAcceptQuoteCommandHandler()
	rollover := c.CreateRolloverVATPeriodCommandHandler()
	reconcile := c.CreateReconcileVATPeriodsCommandHandler()
	changeStatus := c.CreateChangeVATPeriodStatusCommandHandler()

	return httpin.Handlers{
		CreateRegularOrder:    &createRegular,
		CreateCustomOrder:     &createCustom,
		AttachPaymentProof:    &attachProof,
		VerifyPayment:         &verifyPayment,
		ApproveOrder:          &approve,
		SetDeadlineTimer:      &setTimer,
		StartProduction:       &startProduction,
		MarkReady:             &markReady,
		CompleteOrder:         &complete,
		CancelOrder:           &cancel,
		RejectOrder:           &reject,
		SoftDeleteOrder:       &softDelete,
		RestoreOrder:          &restore,
		SubmitQuote:           &submitQuote,
		AcceptQuote:           &acceptQuote,
		RolloverVATPeriod:     &rollover,
		ReconcileVATPeriods:   &reconcile,
		ChangeVATPeriodStatus: &changeStatus,
		GetOrder:              c.CreateGetOrderQueryHandler(),
		ListOrders:            c.CreateListOrdersQueryHandler(),
		ListQuotes:            c.CreateListQuotesQueryHandler(),
		ListVATPeriods:        c.CreateListVATPeriodsQueryHandler(),
		GetVATPeriod:          c.CreateGetVATPeriodQueryHandler(),
	}
}

// CreateTokens signs and verifies API bearer tokens.
func (c *CompositionRoot) CreateTokens() *auth.Tokens {
	return NewTokens(c.cfg)
}

// NewTokens needs no database, so the CLI can issue tokens without one.
func NewTokens(cfg Config) *auth.Tokens {
	return auth.NewTokens(cfg.JWTSecret, cfg.JWTIssuer)
}

// CreateRevocationStore returns an empty store; logouts from a previous
// process are not carried over.
func (c *CompositionRoot) CreateRevocationStore() *auth.RevocationStore {
	return auth.NewRevocationStore(c.cfg.SessionRevocationTTL)
}

func (c *CompositionRoot) CreateJobManager() *jobs.JobManager {
	rollover := c.CreateRolloverVATPeriodCommandHandler()
	overdue := c.CreateNotifyOverdueOrdersCommandHandler()

	return jobs.NewJobManager(c.location, c.logger,
		jobs.NewVATRolloverJob(&rollover, c.clock, c.cfg.VATRolloverSchedule, c.logger),
		jobs.NewDeadlineWatchJob(&overdue, c.cfg.DeadlineWatchSchedule, c.cfg.DeadlineWatchLookback, c.logger),
	)
}

// CreateRecordExpenseCommandHandler serves the expense CLI; the REST surface
// does not record expenses.
func (c *CompositionRoot) CreateRecordExpenseCommandHandler() commands.RecordExpenseCommandHandler {
	return commands.NewRecordExpenseCommandHandler(c.expenseUoWFactory(), c.accountant, c.clock)
}

type FuncOrderUoWFactory func() commands.OrderUoW

func (f FuncOrderUoWFactory) Create() commands.OrderUoW {
	return f()
}

type FuncNegotiationUoWFactory func() commands.NegotiationUoW

func (f FuncNegotiationUoWFactory) Create() commands.NegotiationUoW {
	return f()
}

type FuncCompletionUoWFactory func() commands.CompletionUoW

func (f FuncCompletionUoWFactory) Create() commands.CompletionUoW {
	return f()
}

type FuncExpenseUoWFactory func() commands.ExpenseUoW

func (f FuncExpenseUoWFactory) Create() commands.ExpenseUoW {
	return f()
}

type FuncAccountingUoWFactory func() commands.AccountingUoW

func (f FuncAccountingUoWFactory) Create() commands.AccountingUoW {
	return f()
}
