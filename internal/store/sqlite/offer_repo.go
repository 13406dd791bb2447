package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"weddingmarket/internal/domain"
)

type OfferRepo struct {
	db *sql.DB
}

func NewOfferRepo(db *sql.DB) *OfferRepo {
	return &OfferRepo{db: db}
}

var _ domain.OfferRepository = (*OfferRepo)(nil)

const offerColumns = `id, vendor_id, couple_id, conversation_id, title, message,
	total_amount, status, valid_until, accepted_at, declined_at, created_at, updated_at`

func scanOffer(row interface{ Scan(...any) error }) (*domain.Offer, error) {
	o := &domain.Offer{}
	err := row.Scan(
		&o.ID, &o.VendorID, &o.CoupleID, &o.ConversationID, &o.Title, &o.Message,
		&o.TotalAmount, &o.Status, &o.ValidUntil, &o.AcceptedAt, &o.DeclinedAt, &o.CreatedAt, &o.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return o, nil
}

// CreateWithItems persists the offer, its items, and the optional thread
// notification in one transaction: all of it becomes visible at once or not
// at all.
func (r *OfferRepo) CreateWithItems(ctx context.Context, o *domain.Offer, notify *domain.Message) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	now := time.Now().UTC()
	res, err := tx.ExecContext(ctx, `
		INSERT INTO offers (vendor_id, couple_id, conversation_id, title, message, total_amount, status, valid_until, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, o.VendorID, o.CoupleID, o.ConversationID, o.Title, o.Message, o.TotalAmount, o.Status, o.ValidUntil, now, now)
	if err != nil {
		return fmt.Errorf("insert offer: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("last insert id: %w", err)
	}
	o.ID = id
	o.CreatedAt = now
	o.UpdatedAt = now

	for i := range o.Items {
		it := &o.Items[i]
		it.OfferID = o.ID
		res, err := tx.ExecContext(ctx, `
			INSERT INTO offer_items (offer_id, product_id, title, description, quantity, unit_price, line_total, sort_order)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		`, it.OfferID, it.ProductID, it.Title, it.Description, it.Quantity, it.UnitPrice, it.LineTotal, it.SortOrder)
		if err != nil {
			return fmt.Errorf("insert offer item %d: %w", i, err)
		}
		if it.ID, err = res.LastInsertId(); err != nil {
			return fmt.Errorf("last insert id: %w", err)
		}
	}

	if notify != nil {
		if err := insertMessageTx(ctx, tx, notify); err != nil {
			return err
		}
	}

	return tx.Commit()
}

func (r *OfferRepo) GetByID(ctx context.Context, id int64) (*domain.Offer, error) {
	o, err := scanOffer(r.db.QueryRowContext(ctx, `
		SELECT `+offerColumns+` FROM offers WHERE id = ?
	`, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get offer: %w", err)
	}
	if err := r.attachItems(ctx, []*domain.Offer{o}); err != nil {
		return nil, err
	}
	return o, nil
}

// UpdateStatusIfPending is the pending-gate: a conditional write that only
// one of two racing responses can win.
func (r *OfferRepo) UpdateStatusIfPending(ctx context.Context, offerID int64, status domain.OfferStatus, at time.Time, notify *domain.Message) (bool, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	tsColumn := "accepted_at"
	if status == domain.OfferDeclined {
		tsColumn = "declined_at"
	}
	res, err := tx.ExecContext(ctx, `
		UPDATE offers SET status = ?, `+tsColumn+` = ?, updated_at = ?
		WHERE id = ? AND status = 'pending'
	`, status, at, at, offerID)
	if err != nil {
		return false, fmt.Errorf("update offer status: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return false, nil
	}

	if notify != nil {
		if err := insertMessageTx(ctx, tx, notify); err != nil {
			return false, err
		}
	}

	return true, tx.Commit()
}

func (r *OfferRepo) ListForVendor(ctx context.Context, vendorID int64) ([]*domain.Offer, error) {
	return r.list(ctx, `vendor_id`, vendorID)
}

func (r *OfferRepo) ListForCouple(ctx context.Context, coupleID int64) ([]*domain.Offer, error) {
	return r.list(ctx, `couple_id`, coupleID)
}

func (r *OfferRepo) list(ctx context.Context, column string, partyID int64) ([]*domain.Offer, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+offerColumns+`
		FROM offers WHERE `+column+` = ?
		ORDER BY created_at DESC
	`, partyID)
	if err != nil {
		return nil, fmt.Errorf("list offers: %w", err)
	}
	defer rows.Close()

	var res []*domain.Offer
	for rows.Next() {
		o, err := scanOffer(rows)
		if err != nil {
			return nil, fmt.Errorf("scan offer: %w", err)
		}
		res = append(res, o)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if err := r.attachItems(ctx, res); err != nil {
		return nil, err
	}
	return res, nil
}

func (r *OfferRepo) attachItems(ctx context.Context, offers []*domain.Offer) error {
	for _, o := range offers {
		rows, err := r.db.QueryContext(ctx, `
			SELECT id, offer_id, product_id, title, description, quantity, unit_price, line_total, sort_order
			FROM offer_items WHERE offer_id = ?
			ORDER BY sort_order ASC
		`, o.ID)
		if err != nil {
			return fmt.Errorf("list offer items: %w", err)
		}
		for rows.Next() {
			var it domain.OfferItem
			if err := rows.Scan(&it.ID, &it.OfferID, &it.ProductID, &it.Title, &it.Description, &it.Quantity, &it.UnitPrice, &it.LineTotal, &it.SortOrder); err != nil {
				rows.Close()
				return fmt.Errorf("scan offer item: %w", err)
			}
			o.Items = append(o.Items, it)
		}
		if err := rows.Err(); err != nil {
			rows.Close()
			return err
		}
		rows.Close()
	}
	return nil
}
