package cli

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/familyvault/internal/rpc"
)

func (a *App) ListNominees(ctx context.Context) error {
	list, err := a.api.ListNominees(ctx)
	if err != nil {
		return err
	}
	if len(list) == 0 {
		a.println("No nominees yet. Use 'addnominee'.")
		return nil
	}
	for _, n := range list {
		a.println(fmt.Sprintf("%s  %-24s %-10s %-28s %s", n.ID, n.FullName, n.Relation, n.Email, n.Status))
	}
	return nil
}

func (a *App) AddNominee(ctx context.Context) error {
	var req rpc.NomineeRequest
	var err error
	if req.FullName, err = a.ask("Full name"); err != nil {
		return err
	}
	if req.Relation, err = a.ask("Relation (spouse, child, parent, sibling, friend, other)"); err != nil {
		return err
	}
	if req.Email, err = a.ask("Email"); err != nil {
		return err
	}
	if req.Phone, err = a.ask("Phone, 10 digits (optional)"); err != nil {
		return err
	}

	n, err := a.api.AddNominee(ctx, req)
	if err != nil {
		return err
	}
	a.println("Nominee added:", n.ID)
	a.println("An invitation was sent to", n.Email+"; access works once they confirm it.")
	return nil
}

func (a *App) DeleteNominee(ctx context.Context) error {
	id, err := a.ask("Nominee ID")
	if err != nil {
		return err
	}
	if err := a.api.DeleteNominee(ctx, id); err != nil {
		return err
	}
	a.println("Nominee removed.")
	return nil
}

func (a *App) ListGrants(ctx context.Context) error {
	id, err := a.ask("Nominee ID")
	if err != nil {
		return err
	}
	grants, err := a.api.ListGrants(ctx, id)
	if err != nil {
		return err
	}
	if len(grants) == 0 {
		a.println("No documents shared with this nominee.")
		return nil
	}
	for _, g := range grants {
		a.println(g.DocumentID, g.AccessLevel)
	}
	return nil
}

func (a *App) Grant(ctx context.Context) error {
	nomineeID, err := a.ask("Nominee ID")
	if err != nil {
		return err
	}
	documentID, err := a.ask("Document ID")
	if err != nil {
		return err
	}
	level, err := a.ask("Access level (view or download)")
	if err != nil {
		return err
	}
	if err := a.api.GrantAccess(ctx, nomineeID, documentID, level); err != nil {
		return err
	}
	a.println("Access granted.")
	return nil
}

func (a *App) Revoke(ctx context.Context) error {
	nomineeID, err := a.ask("Nominee ID")
	if err != nil {
		return err
	}
	documentID, err := a.ask("Document ID")
	if err != nil {
		return err
	}
	if err := a.api.RevokeAccess(ctx, nomineeID, documentID); err != nil {
		return err
	}
	a.println("Access revoked.")
	return nil
}
