package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/shubhamkarande/PantryGo/internal/domain"
)

const orderColumns = `id, user_id, address_id, status, total_cents, payment_id, provider_order_id, is_paid, delivery_partner_id, created_at, updated_at`

func scanOrder(row pgx.Row) (*domain.Order, error) {
	var o domain.Order
	var addressID, partnerID uuid.NullUUID
	var paymentID, providerOrderID *string

	err := row.Scan(&o.ID, &o.UserID, &addressID, &o.Status, &o.TotalCents,
		&paymentID, &providerOrderID, &o.IsPaid, &partnerID, &o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		return nil, err
	}

	if addressID.Valid {
		o.AddressID = &addressID.UUID
	}
	if partnerID.Valid {
		o.DeliveryPartnerID = &partnerID.UUID
	}
	if paymentID != nil {
		o.PaymentID = *paymentID
	}
	if providerOrderID != nil {
		o.ProviderOrderID = *providerOrderID
	}
	return &o, nil
}

// OrderItemInsert is one priced line of a new order. The unit price was
// captured by the caller at order time and is stored verbatim.
type OrderItemInsert struct {
	ProductID      uuid.UUID
	ProductName    string
	Quantity       int32
	UnitPriceCents int64
}

// InsertOrderParams contains everything needed to persist a new order.
type InsertOrderParams struct {
	UserID     uuid.UUID
	AddressID  uuid.UUID
	TotalCents int64
	Items      []OrderItemInsert
}

// CreateOrder decrements stock and persists the order with its items in
// one transaction. Stock is taken with an atomic conditional update
// (stock = stock - qty WHERE stock >= qty), so concurrent orders for the
// same product serialize on the row and can never oversell. Any failed
// line aborts the whole order.
func (s *Store) CreateOrder(ctx context.Context, params InsertOrderParams) (*domain.Order, error) {
	order := &domain.Order{
		ID:         uuid.New(),
		UserID:     params.UserID,
		AddressID:  &params.AddressID,
		Status:     domain.OrderPending,
		TotalCents: params.TotalCents,
	}

	err := s.withTx(ctx, func(tx pgx.Tx) error {
		for _, item := range params.Items {
			tag, err := tx.Exec(ctx,
				"UPDATE products SET stock = stock - $2 WHERE id = $1 AND is_active AND stock >= $2",
				item.ProductID, item.Quantity)
			if err != nil {
				return fmt.Errorf("decrement stock: %w", err)
			}
			if tag.RowsAffected() == 0 {
				// Either the product vanished/deactivated since validation
				// or a concurrent order drained the stock.
				var active bool
				err := tx.QueryRow(ctx,
					"SELECT is_active FROM products WHERE id = $1", item.ProductID).Scan(&active)
				if err != nil || !active {
					return domain.ErrProductUnavailable
				}
				return domain.ErrInsufficientStock
			}
		}

		err := tx.QueryRow(ctx, `
			INSERT INTO orders (id, user_id, address_id, status, total_cents)
			VALUES ($1, $2, $3, $4, $5)
			RETURNING created_at, updated_at`,
			order.ID, order.UserID, params.AddressID, order.Status, order.TotalCents,
		).Scan(&order.CreatedAt, &order.UpdatedAt)
		if err != nil {
			return fmt.Errorf("insert order: %w", err)
		}

		for _, item := range params.Items {
			itemID := uuid.New()
			_, err := tx.Exec(ctx, `
				INSERT INTO order_items (id, order_id, product_id, quantity, unit_price_cents)
				VALUES ($1, $2, $3, $4, $5)`,
				itemID, order.ID, item.ProductID, item.Quantity, item.UnitPriceCents)
			if err != nil {
				return fmt.Errorf("insert order item: %w", err)
			}

			order.Items = append(order.Items, domain.OrderItem{
				ID:             itemID,
				OrderID:        order.ID,
				ProductID:      item.ProductID,
				ProductName:    item.ProductName,
				Quantity:       item.Quantity,
				UnitPriceCents: item.UnitPriceCents,
			})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return order, nil
}

// GetOrder retrieves an order with its items.
func (s *Store) GetOrder(ctx context.Context, id uuid.UUID) (*domain.Order, error) {
	o, err := scanOrder(s.pool.QueryRow(ctx,
		"SELECT "+orderColumns+" FROM orders WHERE id = $1", id))
	if err != nil {
		if isNoRows(err) {
			return nil, domain.ErrOrderNotFound
		}
		return nil, fmt.Errorf("get order: %w", err)
	}

	items, err := s.loadOrderItems(ctx, []uuid.UUID{o.ID})
	if err != nil {
		return nil, err
	}
	o.Items = items[o.ID]
	return o, nil
}

// ListOrders returns orders matching the filter plus the total count,
// newest first.
func (s *Store) ListOrders(ctx context.Context, filter domain.OrderFilter) ([]domain.Order, int64, error) {
	where := []string{"true"}
	args := []any{}

	if filter.UserID != nil {
		args = append(args, *filter.UserID)
		where = append(where, fmt.Sprintf("user_id = $%d", len(args)))
	}
	if filter.DeliveryPartnerID != nil {
		args = append(args, *filter.DeliveryPartnerID)
		where = append(where, fmt.Sprintf("delivery_partner_id = $%d", len(args)))
	}
	if filter.Status != nil {
		args = append(args, *filter.Status)
		where = append(where, fmt.Sprintf("status = $%d", len(args)))
	}

	whereClause := strings.Join(where, " AND ")

	var total int64
	if err := s.pool.QueryRow(ctx,
		"SELECT count(*) FROM orders WHERE "+whereClause, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count orders: %w", err)
	}

	page, pageSize := domain.ClampPaging(filter.Page, filter.PageSize)
	args = append(args, pageSize, (page-1)*pageSize)
	query := fmt.Sprintf(
		"SELECT %s FROM orders WHERE %s ORDER BY created_at DESC LIMIT $%d OFFSET $%d",
		orderColumns, whereClause, len(args)-1, len(args),
	)

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list orders: %w", err)
	}
	defer rows.Close()

	orders := []domain.Order{}
	ids := []uuid.UUID{}
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan order: %w", err)
		}
		orders = append(orders, *o)
		ids = append(ids, o.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("list orders: %w", err)
	}

	if len(ids) > 0 {
		items, err := s.loadOrderItems(ctx, ids)
		if err != nil {
			return nil, 0, err
		}
		for i := range orders {
			orders[i].Items = items[orders[i].ID]
		}
	}

	return orders, total, nil
}

// loadOrderItems fetches items for a batch of orders in one query,
// joined with products for display names.
func (s *Store) loadOrderItems(ctx context.Context, orderIDs []uuid.UUID) (map[uuid.UUID][]domain.OrderItem, error) {
	idStrings := make([]string, len(orderIDs))
	for i, id := range orderIDs {
		idStrings[i] = id.String()
	}

	rows, err := s.pool.Query(ctx, `
		SELECT oi.id, oi.order_id, oi.product_id, p.name, oi.quantity, oi.unit_price_cents
		FROM order_items oi
		JOIN products p ON p.id = oi.product_id
		WHERE oi.order_id = ANY($1::uuid[])
		ORDER BY p.name`,
		idStrings)
	if err != nil {
		return nil, fmt.Errorf("load order items: %w", err)
	}
	defer rows.Close()

	items := make(map[uuid.UUID][]domain.OrderItem, len(orderIDs))
	for rows.Next() {
		var item domain.OrderItem
		if err := rows.Scan(&item.ID, &item.OrderID, &item.ProductID,
			&item.ProductName, &item.Quantity, &item.UnitPriceCents); err != nil {
			return nil, fmt.Errorf("scan order item: %w", err)
		}
		items[item.OrderID] = append(items[item.OrderID], item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("load order items: %w", err)
	}

	return items, nil
}

// UpdateOrderStatus transitions an order from one status to another.
// The update is conditional on the current status, so a concurrent
// transition makes this report false instead of silently clobbering.
func (s *Store) UpdateOrderStatus(ctx context.Context, id uuid.UUID, from, to domain.OrderStatus) (bool, error) {
	tag, err := s.pool.Exec(ctx,
		"UPDATE orders SET status = $3, updated_at = now() WHERE id = $1 AND status = $2",
		id, from, to)
	if err != nil {
		return false, fmt.Errorf("update order status: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

// SetDeliveryPartner attaches a delivery partner to an order.
func (s *Store) SetDeliveryPartner(ctx context.Context, orderID, partnerID uuid.UUID) (bool, error) {
	tag, err := s.pool.Exec(ctx,
		"UPDATE orders SET delivery_partner_id = $2, updated_at = now() WHERE id = $1",
		orderID, partnerID)
	if err != nil {
		return false, fmt.Errorf("set delivery partner: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

// SetProviderOrderID stores (or overwrites) the provider payment-order
// reference on an unpaid order.
func (s *Store) SetProviderOrderID(ctx context.Context, orderID uuid.UUID, ref string) (bool, error) {
	tag, err := s.pool.Exec(ctx,
		"UPDATE orders SET provider_order_id = $2, updated_at = now() WHERE id = $1 AND NOT is_paid AND status <> $3",
		orderID, ref, domain.OrderCancelled)
	if err != nil {
		return false, fmt.Errorf("set provider order id: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

// MarkOrderPaid flips the paid flag, records the provider payment id,
// and advances the order to Confirmed. Conditional on the order being
// unpaid and still pending so concurrent verifications serialize on the
// row and a cancelled order can never come back as confirmed; the loser
// reports false.
func (s *Store) MarkOrderPaid(ctx context.Context, orderID uuid.UUID, paymentID string) (bool, error) {
	tag, err := s.pool.Exec(ctx, `
		UPDATE orders
		SET is_paid = true, payment_id = $2, status = $3, updated_at = now()
		WHERE id = $1 AND NOT is_paid AND status = $4`,
		orderID, paymentID, domain.OrderConfirmed, domain.OrderPending)
	if err != nil {
		return false, fmt.Errorf("mark order paid: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}
