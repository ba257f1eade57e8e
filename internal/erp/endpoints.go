package erp

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"dispatch-console/internal/core"
)

// GetPackagingSlip fetches one packaging slip by its own ID. Idempotent read.
func (c *Client) GetPackagingSlip(ctx context.Context, slipID int64) (*core.PackagingSlip, error) {
	var slip core.PackagingSlip
	err := c.get(ctx, fmt.Sprintf("/api/packaging-slips/%d", slipID), &slip)
	if err != nil {
		return nil, mapMissingSlip(err)
	}
	return &slip, nil
}

// GetPackagingSlipByOrder fetches the packaging slip belonging to a sales
// order. Idempotent read; returns core.ErrNoPackagingSlip when the order has
// no slip yet (reservation never performed).
func (c *Client) GetPackagingSlipByOrder(ctx context.Context, orderID int64) (*core.PackagingSlip, error) {
	var slip core.PackagingSlip
	err := c.get(ctx, fmt.Sprintf("/api/sales-orders/%d/packaging-slip", orderID), &slip)
	if err != nil {
		return nil, mapMissingSlip(err)
	}
	return &slip, nil
}

// ConfirmDispatch posts a sales-flow confirmation. Not safely retryable: a
// retry after a lost success response may double-issue stock and invoices.
func (c *Client) ConfirmDispatch(ctx context.Context, req core.SalesDispatchRequest) (*core.DispatchConfirmResponse, error) {
	var resp core.DispatchConfirmResponse
	if err := c.post(ctx, "/api/dispatch/confirm", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// ConfirmFactoryDispatch posts a factory-flow confirmation (goods issue only).
// Same non-retry discipline as ConfirmDispatch.
func (c *Client) ConfirmFactoryDispatch(ctx context.Context, req core.FactoryDispatchRequest) (*core.FactoryDispatchResponse, error) {
	var resp core.FactoryDispatchResponse
	if err := c.post(ctx, "/api/factory/dispatch/confirm", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// GetInvoiceByOrder fetches the invoice created for a sales order. Idempotent
// read.
func (c *Client) GetInvoiceByOrder(ctx context.Context, orderID int64) (*core.Invoice, error) {
	var invoice core.Invoice
	if err := c.get(ctx, fmt.Sprintf("/api/sales-orders/%d/invoice", orderID), &invoice); err != nil {
		return nil, err
	}
	return &invoice, nil
}

// SendInvoiceEmail asks the backend to email the invoice to the counterparty.
// Not idempotent from the recipient's point of view; never auto-retried.
func (c *Client) SendInvoiceEmail(ctx context.Context, invoiceID int64) error {
	return c.post(ctx, fmt.Sprintf("/api/invoices/%d/email", invoiceID), nil, nil)
}

// InvoicePDFURL builds the direct download URL for an invoice PDF. Opening it
// is a plain navigation, not part of the dispatch state machine.
func (c *Client) InvoicePDFURL(invoiceID int64) string {
	return fmt.Sprintf("%s/api/invoices/%d/pdf", c.baseURL, invoiceID)
}

// mapMissingSlip converts a backend 404 on the slip reads into the recoverable
// no-slip condition, keeping it distinct from transport failures.
func mapMissingSlip(err error) error {
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.Status == http.StatusNotFound {
		return core.ErrNoPackagingSlip
	}
	return err
}
