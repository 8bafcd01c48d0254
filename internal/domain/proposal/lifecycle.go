package proposal

import (
	"time"

	apperrors "proposal-service/pkg/errors"
)

// Role identifies a signing party.
type Role string

const (
	RoleNoviq    Role = "noviq"
	RoleLicensee Role = "licensee"
)

var (
	// ErrInvalidRole is returned for a role other than noviq or licensee.
	ErrInvalidRole = NewValidationError(FieldRole, msgInvalidRole)
	// ErrAlreadyLocked is returned when the licensee signs a second time.
	ErrAlreadyLocked = apperrors.Locked("proposal has already been signed by the licensee")
	// ErrProposalLocked is returned for public mutations after the licensee signed.
	ErrProposalLocked = apperrors.Locked("proposal is locked after signing")
	// ErrForbiddenRole is returned when an actor signs for the other party.
	ErrForbiddenRole = apperrors.Forbidden("not permitted to sign for this role")
)

// RecordSignature stores signature for role and moves the proposal to signed
// once both parties have signed. A licensee signature is terminal.
func (p *Proposal) RecordSignature(role Role, signature string, now time.Time) error {
	if err := ValidateRole(role); err != nil {
		return err
	}
	if role == RoleLicensee && p.LicenseeSignature != "" {
		return ErrAlreadyLocked
	}
	if err := p.sign(role, signature, now); err != nil {
		return err
	}
	p.UpdatedAt = now
	return nil
}

// ResetToDraft clears both signatures and re-opens the proposal.
func (p *Proposal) ResetToDraft(now time.Time) {
	p.NoviqSignature = ""
	p.NoviqSignDate = nil
	p.LicenseeSignature = ""
	p.LicenseeSignDate = nil
	p.Status = StatusDraft
	p.UpdatedAt = now
}

func (p *Proposal) sign(role Role, signature string, now time.Time) error {
	if signature == "" {
		return NewValidationError(FieldSignature, msgRequired)
	}

	at := now
	switch role {
	case RoleNoviq:
		p.NoviqSignature = signature
		p.NoviqSignDate = &at
	case RoleLicensee:
		p.LicenseeSignature = signature
		p.LicenseeSignDate = &at
	default:
		return ErrInvalidRole
	}

	p.syncStatus()
	return nil
}

func (p *Proposal) syncStatus() {
	if p.FullySigned() {
		p.Status = StatusSigned
	}
}
