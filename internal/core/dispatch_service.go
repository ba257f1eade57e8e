package core

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// WorkflowState is the lifecycle of one dispatch workflow instance.
//
//	Idle → Loading → Ready → Submitting → Succeeded
//	                   ↑          ↓
//	                   └──── Failed (retryable)
//
// Succeeded is terminal: dispatching again requires a fresh instance.
type WorkflowState string

const (
	StateIdle       WorkflowState = "IDLE"
	StateLoading    WorkflowState = "LOADING"
	StateReady      WorkflowState = "READY"
	StateSubmitting WorkflowState = "SUBMITTING"
	StateSucceeded  WorkflowState = "SUCCEEDED"
	StateFailed     WorkflowState = "FAILED"
)

var (
	// ErrSubmissionInFlight is returned when a confirmation (or a close) is
	// attempted while one confirmation is already on the wire. An already-sent
	// confirmation cannot be cancelled (it may have issued stock and posted
	// ledger entries), so the instance refuses to do anything until it lands.
	ErrSubmissionInFlight = errors.New("a dispatch confirmation is already in flight")

	// ErrWorkflowClosed is returned from any operation on a closed instance.
	ErrWorkflowClosed = errors.New("dispatch workflow is closed")

	// ErrLoadInFlight is returned when a close is attempted while the slip is
	// still being resolved.
	ErrLoadInFlight = errors.New("a slip load is in flight")

	// ErrAlreadyDispatched is returned when confirm is invoked after success.
	ErrAlreadyDispatched = errors.New("dispatch already confirmed; open a new workflow to dispatch again")

	// ErrNotReady is returned when confirm is invoked before a slip is loaded.
	ErrNotReady = errors.New("no packaging slip loaded")
)

// StageStatus classifies what happened to one post-dispatch side-effect stage.
type StageStatus string

const (
	StageOK      StageStatus = "ok"
	StageSkipped StageStatus = "skipped"
	StageFailed  StageStatus = "failed"
)

// StageOutcome records why a side-effect stage did or did not run. Failures
// here are deliberately never surfaced as errors: dispatch itself already
// committed. The reason is kept so the result summary can explain itself.
type StageOutcome struct {
	Status StageStatus
	Reason string
}

func stageOK() StageOutcome {
	return StageOutcome{Status: StageOK}
}

func stageSkipped(reason string) StageOutcome {
	return StageOutcome{Status: StageSkipped, Reason: reason}
}

func stageFailed(reason string) StageOutcome {
	return StageOutcome{Status: StageFailed, Reason: reason}
}

// DispatchOutcome is the terminal result of a successful confirmation. The
// invoice fields reflect what actually happened: they stay zero-valued when the
// lookup was skipped or failed, and EmailSent is true only when the send call
// itself succeeded.
type DispatchOutcome struct {
	Flow             Flow
	AttemptID        string
	PackingSlipID    int64
	SalesOrderID     int64
	Dispatched       bool
	InvoiceID        int64
	InvoiceNumber    string
	EmailSent        bool
	ARJournalEntryID int64
	COGSEntries      []COGSEntry
	InvoiceLookup    StageOutcome
	EmailSend        StageOutcome
}

// Backend is the slice of the ERP API the dispatch workflow consumes. The two
// POSTs are not safely retryable (a retry after a lost success response may
// double-issue stock or invoices) and are never auto-retried here.
type Backend interface {
	SlipReader
	ConfirmDispatch(ctx context.Context, req SalesDispatchRequest) (*DispatchConfirmResponse, error)
	ConfirmFactoryDispatch(ctx context.Context, req FactoryDispatchRequest) (*FactoryDispatchResponse, error)
	GetInvoiceByOrder(ctx context.Context, orderID int64) (*Invoice, error)
	SendInvoiceEmail(ctx context.Context, invoiceID int64) error
}

// WorkflowOptions carries per-instance settings fixed at construction.
type WorkflowOptions struct {
	// ConfirmedBy is the confirming user's display name, sent on factory
	// confirmations.
	ConfirmedBy string
	// SendInvoiceEmail requests the post-dispatch email stage (sales flow only).
	SendInvoiceEmail bool
	// Logger receives the otherwise-swallowed side-effect failures. Nil means
	// no logging.
	Logger *zap.Logger
}

// DispatchWorkflow drives one packaging slip through dispatch confirmation.
// Each instance owns its own state; nothing is shared across instances, and
// callers are responsible for refreshing any list views after a success.
type DispatchWorkflow struct {
	backend Backend
	flow    Flow
	logger  *zap.Logger

	confirmedBy string
	sendEmail   bool

	mu             sync.Mutex
	state          WorkflowState
	closed         bool
	slip           *PackagingSlip
	orderID        int64 // set only when opened from an order reference
	lines          []DispatchLineForm
	creditOverride bool
	lastError      string
	outcome        *DispatchOutcome
}

// NewDispatchWorkflow constructs an Idle workflow bound to one flow. The flow
// is never switched afterwards.
func NewDispatchWorkflow(backend Backend, flow Flow, opts WorkflowOptions) *DispatchWorkflow {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DispatchWorkflow{
		backend:     backend,
		flow:        flow,
		logger:      logger,
		confirmedBy: opts.ConfirmedBy,
		sendEmail:   opts.SendInvoiceEmail,
		state:       StateIdle,
	}
}

// State returns the current workflow state.
func (w *DispatchWorkflow) State() WorkflowState {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.state
}

// Flow returns the confirmation path this instance was constructed with.
func (w *DispatchWorkflow) Flow() Flow { return w.flow }

// Slip returns the resolved packaging slip, nil before Load succeeds.
func (w *DispatchWorkflow) Slip() *PackagingSlip {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.slip
}

// Lines returns a copy of the current line forms. Override pointers are cloned
// too: mutating a returned form must never edit workflow state.
func (w *DispatchWorkflow) Lines() []DispatchLineForm {
	w.mu.Lock()
	defer w.mu.Unlock()
	out := make([]DispatchLineForm, len(w.lines))
	for i, l := range w.lines {
		out[i] = cloneDispatchLineForm(l)
	}
	return out
}

// LastError returns the most recent failure message, empty when none. Exactly
// one error surface exists at a time; a new attempt clears it first.
func (w *DispatchWorkflow) LastError() string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.lastError
}

// Outcome returns the terminal result, nil before success.
func (w *DispatchWorkflow) Outcome() *DispatchOutcome {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.outcome
}

// Load resolves the slip reference and seeds the line editor, moving the
// workflow from Idle to Ready. A resolution failure returns the instance to
// Idle so the caller can remediate (reserve stock, then load again).
func (w *DispatchWorkflow) Load(ctx context.Context, ref SlipRef) error {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return ErrWorkflowClosed
	}
	if w.state != StateIdle {
		w.mu.Unlock()
		return fmt.Errorf("cannot load a slip while %s", w.state)
	}
	w.state = StateLoading
	w.mu.Unlock()

	slip, lines, err := ResolveSlip(ctx, w.backend, ref)

	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		w.state = StateIdle
		return ErrWorkflowClosed
	}
	if err != nil {
		w.state = StateIdle
		return err
	}
	w.slip = slip
	w.lines = lines
	w.orderID = ref.OrderID
	w.state = StateReady
	return nil
}

// UpdateLine applies a partial change to one line. Permitted only while the
// instance is editable (Ready or Failed).
func (w *DispatchWorkflow) UpdateLine(index int, change DispatchLineChange) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return ErrWorkflowClosed
	}
	switch w.state {
	case StateReady, StateFailed:
		w.lines = UpdateDispatchLine(w.lines, index, change)
		return nil
	case StateSubmitting:
		return ErrSubmissionInFlight
	case StateSucceeded:
		return ErrAlreadyDispatched
	default:
		return ErrNotReady
	}
}

// SetCreditOverride asserts (or clears) the admin credit-limit override. The
// flag is read at confirmation time and forwarded only on the sales flow; on a
// factory instance the call is a no-op because that flow has no credit check.
func (w *DispatchWorkflow) SetCreditOverride(v bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.flow != FlowSales {
		w.logger.Debug("credit override ignored outside sales flow")
		return
	}
	w.creditOverride = v
}

// Close marks the instance finished. It is permitted only from Idle, Ready,
// Succeeded, or Failed: an in-flight confirmation cannot be cancelled once
// sent, and pretending otherwise would desynchronize the UI from backend
// reality; an in-flight slip load likewise has to land first.
func (w *DispatchWorkflow) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	switch w.state {
	case StateLoading:
		return ErrLoadInFlight
	case StateSubmitting:
		return ErrSubmissionInFlight
	}
	w.closed = true
	return nil
}

// Confirm runs one confirmation attempt: local validation, the flow-specific
// POST, and (sales flow, on success) the post-dispatch side-effect chain. On a
// backend or transport failure the state becomes Failed with the backend
// message kept verbatim, the line edits untouched, and the attempt fully
// retryable, but never retried automatically.
func (w *DispatchWorkflow) Confirm(ctx context.Context) (*DispatchOutcome, error) {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return nil, ErrWorkflowClosed
	}
	switch w.state {
	case StateReady, StateFailed:
		// fall through to the attempt
	case StateSubmitting:
		w.mu.Unlock()
		return nil, ErrSubmissionInFlight
	case StateSucceeded:
		w.mu.Unlock()
		return nil, ErrAlreadyDispatched
	default:
		w.mu.Unlock()
		return nil, ErrNotReady
	}

	// A new attempt replaces the previous error surface before anything else.
	w.lastError = ""

	// Local gate: reject without a network call, without leaving Ready.
	if err := ValidateDispatchLines(w.lines); err != nil {
		w.state = StateReady
		w.mu.Unlock()
		return nil, err
	}

	filtered := FilterDispatchLines(w.lines)
	slipID := w.slip.ID
	salesOrderID := w.orderID
	override := w.creditOverride
	flow := w.flow
	w.state = StateSubmitting
	w.mu.Unlock()

	attemptID := uuid.NewString()
	outcome, err := w.submit(ctx, flow, slipID, salesOrderID, filtered, override, attemptID)

	w.mu.Lock()
	defer w.mu.Unlock()
	if err != nil {
		w.state = StateFailed
		w.lastError = err.Error()
		return nil, err
	}
	w.outcome = outcome
	w.state = StateSucceeded
	return outcome, nil
}

// submit performs the network portion of one attempt. It runs without the
// instance lock held so that State and Close behave correctly mid-flight.
func (w *DispatchWorkflow) submit(ctx context.Context, flow Flow, slipID, salesOrderID int64, lines []DispatchLineForm, override bool, attemptID string) (*DispatchOutcome, error) {
	if flow == FlowFactory {
		req := BuildFactoryDispatchRequest(slipID, lines, w.confirmedBy)
		resp, err := w.backend.ConfirmFactoryDispatch(ctx, req)
		if err != nil {
			return nil, err
		}
		return &DispatchOutcome{
			Flow:          FlowFactory,
			AttemptID:     attemptID,
			PackingSlipID: resp.PackagingSlipID,
			SalesOrderID:  salesOrderID,
			Dispatched:    resp.Dispatched,
			InvoiceLookup: stageSkipped("factory flow produces no invoice"),
			EmailSend:     stageSkipped("factory flow produces no invoice"),
		}, nil
	}

	req := BuildSalesDispatchRequest(slipID, salesOrderID, lines, override)
	resp, err := w.backend.ConfirmDispatch(ctx, req)
	if err != nil {
		return nil, err
	}
	outcome := &DispatchOutcome{
		Flow:             FlowSales,
		AttemptID:        attemptID,
		PackingSlipID:    resp.PackingSlipID,
		SalesOrderID:     resp.SalesOrderID,
		Dispatched:       resp.Dispatched,
		ARJournalEntryID: resp.ARJournalEntryID,
		COGSEntries:      resp.COGSEntries,
	}
	w.runSideEffects(ctx, resp, outcome)
	return outcome, nil
}

// runSideEffects executes the best-effort chain: invoice lookup, then email.
// Each stage is independently fail-soft: dispatch already committed and is not
// undoable from here, so a stage failure only degrades the result summary. The
// email stage never runs before a successful lookup, and neither runs before a
// successful confirmation.
func (w *DispatchWorkflow) runSideEffects(ctx context.Context, resp *DispatchConfirmResponse, out *DispatchOutcome) {
	if resp.FinalInvoiceID == 0 {
		out.InvoiceLookup = stageSkipped("dispatch created no invoice")
		out.EmailSend = stageSkipped("no invoice to email")
		return
	}

	invoice, err := w.backend.GetInvoiceByOrder(ctx, resp.SalesOrderID)
	if err != nil || invoice == nil {
		reason := "invoice not found"
		if err != nil {
			reason = err.Error()
		}
		w.logger.Warn("invoice lookup after dispatch failed",
			zap.Int64("salesOrderID", resp.SalesOrderID),
			zap.Int64("finalInvoiceID", resp.FinalInvoiceID),
			zap.String("reason", reason),
		)
		out.InvoiceLookup = stageFailed(reason)
		out.EmailSend = stageSkipped("invoice lookup did not complete")
		return
	}
	out.InvoiceID = invoice.ID
	out.InvoiceNumber = invoice.InvoiceNumber
	out.InvoiceLookup = stageOK()

	if !w.sendEmail {
		out.EmailSend = stageSkipped("email not requested")
		return
	}
	if err := w.backend.SendInvoiceEmail(ctx, invoice.ID); err != nil {
		w.logger.Warn("invoice email send failed",
			zap.Int64("invoiceID", invoice.ID),
			zap.Error(err),
		)
		out.EmailSend = stageFailed(err.Error())
		return
	}
	out.EmailSent = true
	out.EmailSend = stageOK()
}
