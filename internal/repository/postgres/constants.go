package postgres

import (
	"fmt"
	"time"
)

const (
	poolHealthCheckPeriod = time.Minute
	poolMaxConnLifetime   = time.Hour
	poolMaxConnIdleTime   = 30 * time.Minute
	dbPingTimeout         = 5 * time.Second

	errProposalNotFound = "proposal not found"
	errUserNotFound     = "user not found"
	errSessionNotFound  = "session not found"

	errFailedParseDatabaseConfigFmt  = "failed to parse database config: %w"
	errFailedCreateConnectionPoolFmt = "failed to create connection pool: %w"
	errFailedPingDatabaseFmt         = "failed to ping database: %w"
	errFailedApplySchemaFmt          = "failed to apply schema: %w"

	errFailedStartTransactionFmt  = "failed to start transaction: %w"
	errFailedCommitTransactionFmt = "failed to commit transaction: %w"

	errFailedCreateProposalFmt = "failed to create proposal: %w"
	errFailedGetProposalFmt    = "failed to get proposal: %w"
	errFailedListProposalsFmt  = "failed to list proposals: %w"
	errFailedScanProposalFmt   = "failed to scan proposal: %w"
	errFailedUpdateProposalFmt = "failed to update proposal: %w"
	errFailedDeleteProposalFmt = "failed to delete proposal: %w"
	errFailedCountProposalsFmt = "failed to count proposals: %w"
	errFailedEncodeTermsFmt    = "failed to encode payment terms: %w"
	errFailedDecodeTermsFmt    = "failed to decode payment terms: %w"
	errFailedParseAmountFmt    = "failed to parse stored amount: %w"

	errFailedInsertItemFmt = "failed to insert proposal item: %w"
	errFailedUpdateItemFmt = "failed to update proposal item: %w"
	errFailedDeleteItemFmt = "failed to delete proposal item: %w"
	errFailedListItemsFmt  = "failed to list proposal items: %w"

	errFailedCreateUserFmt = "failed to create user: %w"
	errFailedGetUserFmt    = "failed to get user: %w"

	errFailedCreateSessionFmt        = "failed to create session: %w"
	errFailedGetSessionFmt           = "failed to get session: %w"
	errFailedDeleteSessionFmt        = "failed to delete session: %w"
	errFailedDeleteExpiredSessionFmt = "failed to delete expired sessions: %w"

	errFailedWriteAuditEventFmt  = "failed to write audit event: %w"
	errFailedQueryAuditEventsFmt = "failed to query audit events: %w"
)

var (
	errFailedApplySchema           = func(err error) error { return fmt.Errorf(errFailedApplySchemaFmt, err) }
	errFailedCommitTransaction     = func(err error) error { return fmt.Errorf(errFailedCommitTransactionFmt, err) }
	errFailedCountProposals        = func(err error) error { return fmt.Errorf(errFailedCountProposalsFmt, err) }
	errFailedCreateConnectionPool  = func(err error) error { return fmt.Errorf(errFailedCreateConnectionPoolFmt, err) }
	errFailedCreateProposal        = func(err error) error { return fmt.Errorf(errFailedCreateProposalFmt, err) }
	errFailedCreateSession         = func(err error) error { return fmt.Errorf(errFailedCreateSessionFmt, err) }
	errFailedCreateUser            = func(err error) error { return fmt.Errorf(errFailedCreateUserFmt, err) }
	errFailedDecodeTerms           = func(err error) error { return fmt.Errorf(errFailedDecodeTermsFmt, err) }
	errFailedDeleteExpiredSessions = func(err error) error { return fmt.Errorf(errFailedDeleteExpiredSessionFmt, err) }
	errFailedDeleteItem            = func(err error) error { return fmt.Errorf(errFailedDeleteItemFmt, err) }
	errFailedDeleteProposal        = func(err error) error { return fmt.Errorf(errFailedDeleteProposalFmt, err) }
	errFailedDeleteSession         = func(err error) error { return fmt.Errorf(errFailedDeleteSessionFmt, err) }
	errFailedEncodeTerms           = func(err error) error { return fmt.Errorf(errFailedEncodeTermsFmt, err) }
	errFailedGetProposal           = func(err error) error { return fmt.Errorf(errFailedGetProposalFmt, err) }
	errFailedGetSession            = func(err error) error { return fmt.Errorf(errFailedGetSessionFmt, err) }
	errFailedGetUser               = func(err error) error { return fmt.Errorf(errFailedGetUserFmt, err) }
	errFailedInsertItem            = func(err error) error { return fmt.Errorf(errFailedInsertItemFmt, err) }
	errFailedListItems             = func(err error) error { return fmt.Errorf(errFailedListItemsFmt, err) }
	errFailedListProposals         = func(err error) error { return fmt.Errorf(errFailedListProposalsFmt, err) }
	errFailedParseAmount           = func(err error) error { return fmt.Errorf(errFailedParseAmountFmt, err) }
	errFailedParseDatabaseConfig   = func(err error) error { return fmt.Errorf(errFailedParseDatabaseConfigFmt, err) }
	errFailedQueryAuditEvents      = func(err error) error { return fmt.Errorf(errFailedQueryAuditEventsFmt, err) }
	errFailedPingDatabase          = func(err error) error { return fmt.Errorf(errFailedPingDatabaseFmt, err) }
	errFailedScanProposal          = func(err error) error { return fmt.Errorf(errFailedScanProposalFmt, err) }
	errFailedStartTransaction      = func(err error) error { return fmt.Errorf(errFailedStartTransactionFmt, err) }
	errFailedUpdateItem            = func(err error) error { return fmt.Errorf(errFailedUpdateItemFmt, err) }
	errFailedUpdateProposal        = func(err error) error { return fmt.Errorf(errFailedUpdateProposalFmt, err) }
	errFailedWriteAuditEvent       = func(err error) error { return fmt.Errorf(errFailedWriteAuditEventFmt, err) }
)
