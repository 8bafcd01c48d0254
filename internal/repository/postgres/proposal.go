package postgres

import (
	"context"
	"encoding/json"
	"proposal-service/internal/domain/proposal"
	"proposal-service/internal/repository"
	apperrors "proposal-service/pkg/errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

const proposalColumns = `
	id, client_name, title, status,
	total_development_fee::text, domain_package_fee::text,
	payment_option, payment_terms,
	noviq_signature, noviq_sign_date, licensee_signature, licensee_sign_date,
	created_at, updated_at
`

var _ repository.ProposalRepository = (*ProposalRepository)(nil)

type ProposalRepository struct {
	db  *DB
	now func() time.Time
}

func NewProposalRepository(db *DB) *ProposalRepository {
	return &ProposalRepository{db: db, now: time.Now}
}

func (r *ProposalRepository) List(ctx context.Context) ([]*proposal.Proposal, error) {
	query := `SELECT ` + proposalColumns + ` FROM proposals ORDER BY created_at DESC, id DESC`

	rows, err := r.db.Pool.Query(ctx, query)
	if err != nil {
		return nil, errFailedListProposals(err)
	}
	defer rows.Close()

	proposals := []*proposal.Proposal{}
	byID := make(map[int64]*proposal.Proposal)
	ids := []int64{}
	for rows.Next() {
		p, err := scanProposal(rows)
		if err != nil {
			return nil, err
		}
		proposals = append(proposals, p)
		byID[p.ID] = p
		ids = append(ids, p.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, errFailedListProposals(err)
	}

	if len(ids) == 0 {
		return proposals, nil
	}

	itemQuery := `
		SELECT id, proposal_id, title, COALESCE(description, ''), "order"
		FROM proposal_items
		WHERE proposal_id = ANY($1)
		ORDER BY proposal_id, "order", id
	`

	itemRows, err := r.db.Pool.Query(ctx, itemQuery, ids)
	if err != nil {
		return nil, errFailedListItems(err)
	}
	defer itemRows.Close()

	for itemRows.Next() {
		var item proposal.Item
		if err := itemRows.Scan(&item.ID, &item.ProposalID, &item.Title, &item.Description, &item.Order); err != nil {
			return nil, errFailedListItems(err)
		}
		if p, ok := byID[item.ProposalID]; ok {
			p.Items = append(p.Items, item)
		}
	}

	if err := itemRows.Err(); err != nil {
		return nil, errFailedListItems(err)
	}

	return proposals, nil
}

func (r *ProposalRepository) Get(ctx context.Context, id int64) (*proposal.Proposal, error) {
	return r.load(ctx, r.db.Pool, id, false)
}

func (r *ProposalRepository) Create(ctx context.Context, p *proposal.Proposal) (*proposal.Proposal, error) {
	terms, err := encodeTerms(p.PaymentTerms)
	if err != nil {
		return nil, err
	}

	tx, err := r.db.Pool.Begin(ctx)
	if err != nil {
		return nil, errFailedStartTransaction(err)
	}
	defer tx.Rollback(ctx)

	query := `
		INSERT INTO proposals (
			client_name, title, status, total_development_fee, domain_package_fee,
			payment_option, payment_terms, noviq_signature, noviq_sign_date,
			licensee_signature, licensee_sign_date, created_at, updated_at
		) VALUES ($1, $2, $3, $4::numeric, $5::numeric, $6, $7, $8, $9, $10, $11, $12, $13)
		RETURNING ` + proposalColumns

	created, err := scanProposal(tx.QueryRow(ctx, query,
		p.ClientName,
		p.Title,
		p.Status,
		p.TotalDevelopmentFee.String(),
		nullableAmount(p.DomainPackageFee),
		p.PaymentOption,
		terms,
		nullableText(p.NoviqSignature),
		p.NoviqSignDate,
		nullableText(p.LicenseeSignature),
		p.LicenseeSignDate,
		p.CreatedAt,
		p.UpdatedAt,
	))
	if err != nil {
		return nil, errFailedCreateProposal(err)
	}

	created.Items = append([]proposal.Item(nil), p.Items...)
	if err := insertNewItems(ctx, tx, created.ID, created.Items); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, errFailedCommitTransaction(err)
	}

	return created, nil
}

func (r *ProposalRepository) Update(ctx context.Context, id int64, mutate repository.MutateFunc) (*proposal.Proposal, error) {
	tx, err := r.db.Pool.Begin(ctx)
	if err != nil {
		return nil, errFailedStartTransaction(err)
	}
	defer tx.Rollback(ctx)

	current, err := r.load(ctx, tx, id, true)
	if err != nil {
		return nil, err
	}

	next := current.Clone()
	if err := mutate(next); err != nil {
		return nil, err
	}
	next.ID = current.ID

	terms, err := encodeTerms(next.PaymentTerms)
	if err != nil {
		return nil, err
	}

	query := `
		UPDATE proposals SET
			client_name = $2,
			title = $3,
			status = $4,
			total_development_fee = $5::numeric,
			domain_package_fee = $6::numeric,
			payment_option = $7,
			payment_terms = $8,
			noviq_signature = $9,
			noviq_sign_date = $10,
			licensee_signature = $11,
			licensee_sign_date = $12,
			updated_at = $13
		WHERE id = $1
	`

	updatedAt := next.UpdatedAt
	if !updatedAt.After(current.UpdatedAt) {
		updatedAt = r.now()
		next.UpdatedAt = updatedAt
	}

	_, err = tx.Exec(ctx, query,
		next.ID,
		next.ClientName,
		next.Title,
		next.Status,
		next.TotalDevelopmentFee.String(),
		nullableAmount(next.DomainPackageFee),
		next.PaymentOption,
		terms,
		nullableText(next.NoviqSignature),
		next.NoviqSignDate,
		nullableText(next.LicenseeSignature),
		next.LicenseeSignDate,
		updatedAt,
	)
	if err != nil {
		return nil, errFailedUpdateProposal(err)
	}

	if err := applyItemDiff(ctx, tx, next.ID, current.Items, next.Items); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, errFailedCommitTransaction(err)
	}

	return next, nil
}

func (r *ProposalRepository) Delete(ctx context.Context, id int64) error {
	tx, err := r.db.Pool.Begin(ctx)
	if err != nil {
		return errFailedStartTransaction(err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM proposal_items WHERE proposal_id = $1`, id); err != nil {
		return errFailedDeleteItem(err)
	}

	result, err := tx.Exec(ctx, `DELETE FROM proposals WHERE id = $1`, id)
	if err != nil {
		return errFailedDeleteProposal(err)
	}

	if result.RowsAffected() == 0 {
		return apperrors.NotFound(errProposalNotFound)
	}

	if err := tx.Commit(ctx); err != nil {
		return errFailedCommitTransaction(err)
	}

	return nil
}

func (r *ProposalRepository) Count(ctx context.Context) (int, error) {
	var count int
	if err := r.db.Pool.QueryRow(ctx, `SELECT COUNT(*) FROM proposals`).Scan(&count); err != nil {
		return 0, errFailedCountProposals(err)
	}
	return count, nil
}

func (r *ProposalRepository) load(ctx context.Context, q querier, id int64, forUpdate bool) (*proposal.Proposal, error) {
	query := `SELECT ` + proposalColumns + ` FROM proposals WHERE id = $1`
	if forUpdate {
		query += ` FOR UPDATE`
	}

	p, err := scanProposal(q.QueryRow(ctx, query, id))
	if err != nil {
		if isNoRows(err) {
			return nil, apperrors.NotFound(errProposalNotFound)
		}
		return nil, errFailedGetProposal(err)
	}

	itemQuery := `
		SELECT id, proposal_id, title, COALESCE(description, ''), "order"
		FROM proposal_items
		WHERE proposal_id = $1
		ORDER BY "order", id
	`

	rows, err := q.Query(ctx, itemQuery, id)
	if err != nil {
		return nil, errFailedListItems(err)
	}
	defer rows.Close()

	for rows.Next() {
		var item proposal.Item
		if err := rows.Scan(&item.ID, &item.ProposalID, &item.Title, &item.Description, &item.Order); err != nil {
			return nil, errFailedListItems(err)
		}
		p.Items = append(p.Items, item)
	}

	if err := rows.Err(); err != nil {
		return nil, errFailedListItems(err)
	}

	return p, nil
}

func applyItemDiff(ctx context.Context, q querier, proposalID int64, before, after []proposal.Item) error {
	diff := proposal.DiffItems(before, after)

	for _, id := range diff.Delete {
		if _, err := q.Exec(ctx, `DELETE FROM proposal_items WHERE id = $1 AND proposal_id = $2`, id, proposalID); err != nil {
			return errFailedDeleteItem(err)
		}
	}

	for _, item := range diff.Update {
		query := `
			UPDATE proposal_items
			SET title = $3, description = $4, "order" = $5
			WHERE id = $1 AND proposal_id = $2
		`
		if _, err := q.Exec(ctx, query, item.ID, proposalID, item.Title, nullableText(item.Description), item.Order); err != nil {
			return errFailedUpdateItem(err)
		}
	}

	return insertNewItems(ctx, q, proposalID, after)
}

// insertNewItems inserts every item with a zero id and records the assigned id.
func insertNewItems(ctx context.Context, q querier, proposalID int64, items []proposal.Item) error {
	query := `
		INSERT INTO proposal_items (proposal_id, title, description, "order")
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`

	for i := range items {
		items[i].ProposalID = proposalID
		if items[i].ID != 0 {
			continue
		}
		err := q.QueryRow(ctx, query, proposalID, items[i].Title, nullableText(items[i].Description), items[i].Order).Scan(&items[i].ID)
		if err != nil {
			return errFailedInsertItem(err)
		}
	}

	return nil
}

func scanProposal(row pgx.Row) (*proposal.Proposal, error) {
	var (
		p                 proposal.Proposal
		devFee            string
		domainFee         *string
		terms             []byte
		noviqSignature    *string
		licenseeSignature *string
	)

	err := row.Scan(
		&p.ID,
		&p.ClientName,
		&p.Title,
		&p.Status,
		&devFee,
		&domainFee,
		&p.PaymentOption,
		&terms,
		&noviqSignature,
		&p.NoviqSignDate,
		&licenseeSignature,
		&p.LicenseeSignDate,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		if isNoRows(err) {
			return nil, err
		}
		return nil, errFailedScanProposal(err)
	}

	if p.TotalDevelopmentFee, err = decimal.NewFromString(devFee); err != nil {
		return nil, errFailedParseAmount(err)
	}

	if domainFee != nil {
		fee, err := decimal.NewFromString(*domainFee)
		if err != nil {
			return nil, errFailedParseAmount(err)
		}
		p.DomainPackageFee = &fee
	}

	if len(terms) > 0 {
		var t proposal.PaymentTerms
		if err := json.Unmarshal(terms, &t); err != nil {
			return nil, errFailedDecodeTerms(err)
		}
		p.PaymentTerms = &t
	}

	if noviqSignature != nil {
		p.NoviqSignature = *noviqSignature
	}
	if licenseeSignature != nil {
		p.LicenseeSignature = *licenseeSignature
	}

	return &p, nil
}

func encodeTerms(terms *proposal.PaymentTerms) (any, error) {
	if terms == nil {
		return nil, nil
	}
	raw, err := json.Marshal(terms)
	if err != nil {
		return nil, errFailedEncodeTerms(err)
	}
	return raw, nil
}

func nullableAmount(d *decimal.Decimal) any {
	if d == nil {
		return nil
	}
	return d.String()
}

func nullableText(s string) any {
	if s == "" {
		return nil
	}
	return s
}
