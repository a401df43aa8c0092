package http

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Inventario-ledger/internal/application/dto"
	"github.com/jhoicas/Inventario-ledger/internal/application/inventory"
	"github.com/jhoicas/Inventario-ledger/internal/application/orders"
	"github.com/jhoicas/Inventario-ledger/internal/domain"
	domaininv "github.com/jhoicas/Inventario-ledger/internal/domain/inventory"
	"github.com/jhoicas/Inventario-ledger/internal/domain/entity"
)

// ── entrada ──────────────────────────────────────────────────────────────────

func parseItem(ref dto.ItemRef) (entity.StockItem, error) {
	return entity.ParseStockItem(ref.Kind, ref.ID)
}

func parseLines(in []dto.LineRequest) ([]orders.LineInput, error) {
	out := make([]orders.LineInput, 0, len(in))
	for _, l := range in {
		item, err := parseItem(l.ItemRef)
		if err != nil {
			return nil, err
		}
		out = append(out, orders.LineInput{Item: item, Quantity: l.Quantity})
	}
	return out, nil
}

func parsePolicy(s string) (*inventory.ShortfallPolicy, error) {
	var p inventory.ShortfallPolicy
	switch s {
	case "":
		return nil, nil
	case "fail":
		p = inventory.ShortfallFail
	case "accept":
		p = inventory.ShortfallAccept
	default:
		return nil, fmt.Errorf("policy %q (fail|accept): %w", s, domain.ErrInvalidInput)
	}
	return &p, nil
}

// ── salida ───────────────────────────────────────────────────────────────────

func itemRef(item entity.StockItem) dto.ItemRef {
	return dto.ItemRef{Kind: string(item.Kind), ID: item.ID}
}

func warehouseQuantities(in []domaininv.WarehouseQuantity) []dto.WarehouseQuantity {
	out := make([]dto.WarehouseQuantity, 0, len(in))
	for _, w := range in {
		out = append(out, dto.WarehouseQuantity{WarehouseID: w.WarehouseID, Quantity: w.Quantity})
	}
	return out
}

func toAllocationResponse(r *inventory.AllocationResult) dto.AllocationResponse {
	return dto.AllocationResponse{
		Item:          itemRef(r.Item),
		DemandOrderID: r.DemandOrderID,
		Requested:     r.Requested,
		Allocated:     r.Allocated,
		Shortfall:     r.Shortfall,
		Complete:      r.Complete(),
		ByWarehouse:   warehouseQuantities(r.ByWarehouse),
	}
}

func toAllocationResponses(in []*inventory.AllocationResult) []dto.AllocationResponse {
	out := make([]dto.AllocationResponse, 0, len(in))
	for _, r := range in {
		out = append(out, toAllocationResponse(r))
	}
	return out
}

func toReleaseResponse(r *inventory.ReleaseResult) dto.ReleaseResponse {
	out := dto.ReleaseResponse{
		DemandOrderID: r.DemandOrderID,
		Lines:         make([]dto.ReleasedLineResponse, 0, len(r.Lines)),
		Shortfalls:    make([]dto.ReleaseShortfallResponse, 0, len(r.Shortfalls)),
	}
	for _, l := range r.Lines {
		out.Lines = append(out.Lines, dto.ReleasedLineResponse{
			Item:        itemRef(l.Item),
			Required:    l.Required,
			Released:    l.Released,
			ByWarehouse: warehouseQuantities(l.ByWarehouse),
		})
	}
	for _, s := range r.Shortfalls {
		out.Shortfalls = append(out.Shortfalls, dto.ReleaseShortfallResponse{
			Item:     itemRef(s.Item),
			Required: s.Required,
			Released: s.Released,
		})
	}
	return out
}

func toTransactionResponse(t *entity.TransactionRecord) *dto.TransactionResponse {
	if t == nil {
		return nil
	}
	return &dto.TransactionResponse{
		ID:           t.ID,
		WarehouseID:  t.WarehouseID,
		Item:         itemRef(t.Item),
		Direction:    string(t.Direction),
		Quantity:     t.Quantity,
		Timestamp:    t.Timestamp,
		DocumentID:   t.SourceDocumentID,
		DocumentKind: string(t.SourceDocumentKind),
		CreatedBy:    t.CreatedBy,
	}
}

func toIssueResponse(r *inventory.IssueResult) dto.IssueResponse {
	out := dto.IssueResponse{
		Pool:        string(r.Pool),
		Remaining:   decimal.Zero,
		Transaction: toTransactionResponse(r.Transaction),
		OrderStatus: string(r.OrderStatus),
	}
	if r.Record != nil {
		out.Remaining = r.Record.Quantity
	}
	if r.DemandLine != nil {
		out.DemandLineID = r.DemandLine.ID
	}
	if r.Outsourcing != nil {
		out.OutsourcingID = r.Outsourcing.ID
	}
	return out
}

func toReceiveResponse(r *inventory.ReceiveResult) dto.ReceiveResponse {
	out := dto.ReceiveResponse{
		Pool:          string(r.Pool),
		DemandOrderID: r.DemandOrderID,
		Transaction:   toTransactionResponse(r.Transaction),
		OrderStatus:   string(r.OrderStatus),
	}
	if r.Record != nil {
		out.Quantity = r.Record.Quantity
	}
	if r.SupplyLine != nil {
		out.SupplyLineID = r.SupplyLine.ID
	}
	return out
}

func demandLines(in []*entity.DemandLine) []dto.DemandLineResponse {
	out := make([]dto.DemandLineResponse, 0, len(in))
	for _, l := range in {
		out = append(out, dto.DemandLineResponse{
			ID:        l.ID,
			Item:      itemRef(l.Item),
			Required:  l.Required,
			Received:  l.Received,
			Remaining: l.Remaining,
		})
	}
	return out
}

func supplyLines(in []*entity.SupplyLine) []dto.SupplyLineResponse {
	out := make([]dto.SupplyLineResponse, 0, len(in))
	for _, l := range in {
		out = append(out, dto.SupplyLineResponse{
			ID:        l.ID,
			Item:      itemRef(l.Item),
			Ordered:   l.Ordered,
			Received:  l.Received,
			Remaining: l.Remaining,
		})
	}
	return out
}

func toSalesOrderResponse(o *entity.SalesOrder) dto.SalesOrderResponse {
	return dto.SalesOrderResponse{
		ID:         o.ID,
		Code:       o.Code,
		CustomerID: o.CustomerID,
		Status:     string(o.Status),
		Products:   demandLines(o.ProductLines),
		Materials:  demandLines(o.MaterialLines),
		CreatedBy:  o.CreatedBy,
		CreatedAt:  o.CreatedAt,
		UpdatedAt:  o.UpdatedAt,
	}
}

func toPurchaseRequestResponse(p *entity.PurchaseRequest) dto.PurchaseRequestResponse {
	return dto.PurchaseRequestResponse{
		ID:           p.ID,
		Code:         p.Code,
		SalesOrderID: p.SalesOrderID,
		Status:       string(p.Status),
		Lines:        supplyLines(p.Lines),
		CreatedAt:    p.CreatedAt,
		UpdatedAt:    p.UpdatedAt,
	}
}

func toPurchaseOrderResponse(o *entity.PurchaseOrder) dto.PurchaseOrderResponse {
	return dto.PurchaseOrderResponse{
		ID:                o.ID,
		Code:              o.Code,
		PurchaseRequestID: o.PurchaseRequestID,
		SalesOrderID:      o.SalesOrderID,
		SupplierID:        o.SupplierID,
		WarehouseID:       o.WarehouseID,
		Status:            string(o.Status),
		Lines:             supplyLines(o.Lines),
		CreatedAt:         o.CreatedAt,
		UpdatedAt:         o.UpdatedAt,
	}
}

func toIssueNoteResponse(n *entity.IssueNote) dto.IssueNoteResponse {
	out := dto.IssueNoteResponse{
		ID:           n.ID,
		Code:         n.Code,
		WarehouseID:  n.WarehouseID,
		SalesOrderID: n.SalesOrderID,
		Category:     string(n.Category),
		SupplierID:   n.SupplierID,
		Status:       string(n.Status),
		Lines:        make([]dto.IssueNoteLineResponse, 0, len(n.Lines)),
		CreatedAt:    n.CreatedAt,
		UpdatedAt:    n.UpdatedAt,
	}
	for _, l := range n.Lines {
		out.Lines = append(out.Lines, dto.IssueNoteLineResponse{
			ID:           l.ID,
			Item:         itemRef(l.Item),
			Quantity:     l.Quantity,
			DemandLineID: l.DemandLineID,
		})
	}
	for _, e := range n.ExpectedReturns {
		out.ExpectedReturns = append(out.ExpectedReturns, dto.LineRequest{ItemRef: itemRef(e.Item), Quantity: e.Quantity})
	}
	return out
}

func toOutsourcingResponse(o *entity.OutsourcingRecord) *dto.OutsourcingResponse {
	if o == nil {
		return nil
	}
	return &dto.OutsourcingResponse{
		ID:          o.ID,
		IssueNoteID: o.IssueNoteID,
		SupplierID:  o.SupplierID,
		WarehouseID: o.WarehouseID,
		Status:      string(o.Status),
		Materials:   supplyLines(o.Materials),
		CreatedAt:   o.CreatedAt,
		UpdatedAt:   o.UpdatedAt,
	}
}
