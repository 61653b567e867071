package memory

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Tiendas-api/internal/domain/entity"
)

func copyDecimal(d *decimal.Decimal) *decimal.Decimal {
	if d == nil {
		return nil
	}
	v := *d
	return &v
}

func copyTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := *t
	return &v
}

func copyString(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}

func copyStoreProduct(sp entity.StoreProduct) *entity.StoreProduct {
	sp.PriceList = copyDecimal(sp.PriceList)
	return &sp
}

func copyOffer(o entity.SpecialOffer) *entity.SpecialOffer {
	o.EndDate = copyTime(o.EndDate)
	return &o
}

func copyOrder(st *state, po entity.PurchaseOrder) *entity.PurchaseOrder {
	po.DueDate = copyTime(po.DueDate)
	po.DTENumber = copyString(po.DTENumber)
	items := st.orderItems[po.ID]
	po.Items = make([]*entity.PurchaseOrderItem, 0, len(items))
	for _, it := range items {
		it := it
		po.Items = append(po.Items, &it)
	}
	return &po
}

func copyTransfer(st *state, t entity.StoreTransfer) *entity.StoreTransfer {
	t.CompletedAt = copyTime(t.CompletedAt)
	items := st.transferItems[t.ID]
	t.Items = make([]*entity.StoreTransferItem, 0, len(items))
	for _, it := range items {
		it := it
		t.Items = append(t.Items, &it)
	}
	return &t
}

func copySale(st *state, s entity.Sale) *entity.Sale {
	items := st.saleItems[s.ID]
	s.Items = make([]*entity.SaleProduct, 0, len(items))
	for _, it := range items {
		it := it
		s.Items = append(s.Items, &it)
	}
	return &s
}
