package rbac

import (
	"context"
	_ "embed"
	"fmt"
	"strings"

	"github.com/casbin/casbin/v2"
	"github.com/casbin/casbin/v2/model"
	"github.com/smallbiznis/ledgerline/internal/api"
	"github.com/smallbiznis/ledgerline/internal/session"
	"go.uber.org/zap"
)

//go:embed model.conf
var modelText string

const (
	ObjectSale           = "sale"
	ObjectPurchase       = "purchase"
	ObjectQuotation      = "quotation"
	ObjectSaleReturn     = "sale_return"
	ObjectPurchaseReturn = "purchase_return"
	ObjectItem           = "item"
	ObjectStock          = "stock"
	ObjectTransfer       = "transfer"
	ObjectParty          = "party"
	ObjectCompany        = "company"
	ObjectBranch         = "branch"
	ObjectUser           = "user"
	ObjectReport         = "report"
)

const (
	ActionView   = "view"
	ActionCreate = "create"
	ActionUpdate = "update"
	ActionDelete = "delete"

	ActionStockAdjust    = "adjust"
	ActionTransferCreate = "create"
	ActionReportView     = "view"
	ActionPrint          = "print"
)

// Role is the sysadmin service's role shape: a named permission set scoped
// to a company. Permissions are "object.action" strings.
type Role struct {
	ID          string   `json:"id"`
	CompanyID   string   `json:"companyId"`
	Name        string   `json:"name"`
	Permissions []string `json:"permissions"`
}

// Service gates local operations on the signed-in user's role before any
// request leaves the client. The server enforces the same rules; this gate
// only exists so the client can disable what would be rejected anyway.
type Service interface {
	// Authorize returns ErrForbidden when the session's user may not perform
	// action on object within the active company.
	Authorize(ctx context.Context, sess session.Context, object, action string) error
	// Can is Authorize without the error detail, for enabling/disabling UI.
	Can(ctx context.Context, sess session.Context, object, action string) bool
	// Sync pulls the company's role definitions from the sysadmin service and
	// replaces the seeded defaults for that company's roles.
	Sync(ctx context.Context, companyID string) error
}

type ServiceImpl struct {
	client   *api.Client
	log      *zap.Logger
	enforcer *casbin.SyncedEnforcer
}

func NewEnforcer() (*casbin.SyncedEnforcer, error) {
	m, err := model.NewModelFromString(modelText)
	if err != nil {
		return nil, err
	}
	enforcer, err := casbin.NewSyncedEnforcer(m)
	if err != nil {
		return nil, err
	}
	enforcer.EnableAutoBuildRoleLinks(true)
	if err := seedPolicies(enforcer); err != nil {
		return nil, err
	}
	enforcer.BuildRoleLinks()
	return enforcer, nil
}

func NewService(client *api.Client, enforcer *casbin.SyncedEnforcer, log *zap.Logger) Service {
	return &ServiceImpl{
		client:   client,
		log:      log.Named("rbac.service"),
		enforcer: enforcer,
	}
}

func (s *ServiceImpl) Authorize(ctx context.Context, sess session.Context, object, action string) error {
	userID := strings.TrimSpace(sess.User.ID)
	if userID == "" {
		return ErrInvalidActor
	}
	companyID := strings.TrimSpace(sess.Company.ID)
	if companyID == "" {
		return ErrNoCompany
	}
	object = strings.TrimSpace(object)
	if object == "" {
		return ErrInvalidObject
	}
	action = strings.TrimSpace(action)
	if action == "" {
		return ErrInvalidAction
	}

	subject := fmt.Sprintf("user:%s", userID)
	roleName := fmt.Sprintf("role:%s", strings.ToLower(strings.TrimSpace(sess.User.Role)))
	domain := fmt.Sprintf("company:%s", companyID)
	if err := s.ensureGrouping(subject, roleName, domain); err != nil {
		return err
	}

	allowed, err := s.enforcer.Enforce(subject, domain, object, action)
	if err != nil {
		return err
	}
	if !allowed {
		s.log.Debug("denied",
			zap.String("subject", subject),
			zap.String("object", object),
			zap.String("action", action),
		)
		return ErrForbidden
	}
	return nil
}

func (s *ServiceImpl) Can(ctx context.Context, sess session.Context, object, action string) bool {
	return s.Authorize(ctx, sess, object, action) == nil
}

func (s *ServiceImpl) Sync(ctx context.Context, companyID string) error {
	companyID = strings.TrimSpace(companyID)
	if companyID == "" {
		return ErrNoCompany
	}
	page, err := api.List[Role](ctx, s.client, api.ServiceSysadmin, "roles", api.ListRequest{
		PageSize:  100,
		CompanyID: companyID,
	})
	if err != nil {
		return err
	}
	for _, role := range page.Items {
		roleName := fmt.Sprintf("role:%s", strings.ToLower(strings.TrimSpace(role.Name)))
		if _, err := s.enforcer.RemoveFilteredPolicy(0, roleName); err != nil {
			return err
		}
		for _, perm := range role.Permissions {
			object, action, ok := strings.Cut(perm, ".")
			if !ok {
				s.log.Warn("skipping malformed permission",
					zap.String("role", role.Name),
					zap.String("permission", perm),
				)
				continue
			}
			if _, err := s.enforcer.AddPolicy(roleName, object, action); err != nil {
				return err
			}
		}
	}
	s.enforcer.BuildRoleLinks()
	return nil
}

// ensureGrouping keeps exactly one role binding per subject and domain so a
// server-side role change takes effect on the next check.
func (s *ServiceImpl) ensureGrouping(subject, roleName, domain string) error {
	existing, err := s.enforcer.GetFilteredGroupingPolicy(0, subject, "", domain)
	if err != nil {
		return err
	}
	for _, rule := range existing {
		if len(rule) < 2 || rule[1] == roleName {
			continue
		}
		params := make([]interface{}, 0, len(rule))
		for _, value := range rule {
			params = append(params, value)
		}
		_, _ = s.enforcer.RemoveGroupingPolicy(params...)
	}

	has, err := s.enforcer.HasGroupingPolicy(subject, roleName, domain)
	if err != nil {
		return err
	}
	if has {
		return nil
	}
	_, err = s.enforcer.AddGroupingPolicy(subject, roleName, domain)
	return err
}

func seedPolicies(enforcer *casbin.SyncedEnforcer) error {
	crud := func(role, object string) [][]string {
		return [][]string{
			{role, object, ActionView},
			{role, object, ActionCreate},
			{role, object, ActionUpdate},
			{role, object, ActionDelete},
		}
	}

	policies := [][]string{
		// Viewer: read everything, change nothing.
		{"role:viewer", ObjectSale, ActionView},
		{"role:viewer", ObjectPurchase, ActionView},
		{"role:viewer", ObjectQuotation, ActionView},
		{"role:viewer", ObjectItem, ActionView},
		{"role:viewer", ObjectParty, ActionView},
		{"role:viewer", ObjectReport, ActionReportView},

		// Staff: day-to-day documents but no deletes and no company admin.
		{"role:staff", ObjectSale, ActionView},
		{"role:staff", ObjectSale, ActionCreate},
		{"role:staff", ObjectSale, ActionPrint},
		{"role:staff", ObjectPurchase, ActionView},
		{"role:staff", ObjectPurchase, ActionCreate},
		{"role:staff", ObjectPurchase, ActionPrint},
		{"role:staff", ObjectQuotation, ActionView},
		{"role:staff", ObjectQuotation, ActionCreate},
		{"role:staff", ObjectQuotation, ActionPrint},
		{"role:staff", ObjectSaleReturn, ActionView},
		{"role:staff", ObjectSaleReturn, ActionCreate},
		{"role:staff", ObjectPurchaseReturn, ActionView},
		{"role:staff", ObjectPurchaseReturn, ActionCreate},
		{"role:staff", ObjectItem, ActionView},
		{"role:staff", ObjectParty, ActionView},
		{"role:staff", ObjectParty, ActionCreate},
	}

	for _, object := range []string{
		ObjectSale, ObjectPurchase, ObjectQuotation,
		ObjectSaleReturn, ObjectPurchaseReturn,
		ObjectItem, ObjectParty,
	} {
		policies = append(policies, crud("role:admin", object)...)
		policies = append(policies, crud("role:owner", object)...)
	}
	for _, role := range []string{"role:admin", "role:owner"} {
		policies = append(policies,
			[]string{role, ObjectSale, ActionPrint},
			[]string{role, ObjectPurchase, ActionPrint},
			[]string{role, ObjectQuotation, ActionPrint},
			[]string{role, ObjectStock, ActionStockAdjust},
			[]string{role, ObjectTransfer, ActionTransferCreate},
			[]string{role, ObjectTransfer, ActionView},
			[]string{role, ObjectReport, ActionReportView},
			[]string{role, ObjectBranch, ActionView},
		)
	}

	// Owner alone manages the company and its users.
	policies = append(policies,
		[]string{"role:owner", ObjectCompany, ActionView},
		[]string{"role:owner", ObjectCompany, ActionCreate},
		[]string{"role:owner", ObjectCompany, ActionUpdate},
		[]string{"role:owner", ObjectBranch, ActionCreate},
		[]string{"role:owner", ObjectBranch, ActionUpdate},
		[]string{"role:owner", ObjectUser, ActionView},
		[]string{"role:owner", ObjectUser, ActionCreate},
		[]string{"role:owner", ObjectUser, ActionUpdate},
		[]string{"role:owner", ObjectUser, ActionDelete},
	)
	policies = append(policies, []string{"role:admin", ObjectCompany, ActionView})
	policies = append(policies, []string{"role:admin", ObjectUser, ActionView})

	for _, policy := range policies {
		if _, err := enforcer.AddPolicy(policy); err != nil {
			return err
		}
	}
	return nil
}
