package authorize

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/biointellect/hospital_backend/pkg/util/roles"
)

// RBACRole maps a profile role to its Casbin policy subject.
func RBACRole(r roles.Role) Role {
	switch r {
	case roles.SuperAdmin:
		return RoleSuperAdmin
	case roles.Administrator:
		return RoleAdministrator
	case roles.Doctor:
		return RoleDoctor
	case roles.Nurse:
		return RoleNurse
	default:
		return RolePatient
	}
}

// SeedDefaultPolicies sets up the baseline RBAC policies for the system.
// Policies name explicit actions; the matcher does no action expansion.
func SeedDefaultPolicies(ctx context.Context, auth IAuthorization) error {
	logger := slog.Default()

	// Platform policies (domain: sys)
	sysPolicies := []PermissionPolicy{
		// Super admin: god mode. The enforcer also short-circuits for
		// this role, the policy keeps the table self-describing.
		{RoleSuperAdmin, DomainSys, WildcardResource, WildcardAction, EffectAllow},
	}

	// Hospital policies (domain: hospital:*)
	hospitalPolicies := []PermissionPolicy{}

	// Administrators manage everything inside their hospital except RBAC.
	for _, res := range []Resource{
		ResourceUser, ResourcePatient, ResourceDoctor, ResourceNurse, ResourceAdministrator,
		ResourceCase, ResourceMedicalFile, ResourceECGResult, ResourceMRIResult, ResourceReport,
		ResourceNotification, ResourceAnalytics, ResourceGeography,
	} {
		hospitalPolicies = append(hospitalPolicies,
			PermissionPolicy{RoleAdministrator, WildcardDomain, res, WildcardAction, EffectAllow})
	}

	// Doctors: clinical read/write.
	for _, p := range []struct {
		res  Resource
		acts []Action
	}{
		{ResourcePatient, []Action{ActionCreate, ActionRead, ActionList, ActionUpdate}},
		{ResourceDoctor, []Action{ActionRead, ActionList}},
		{ResourceNurse, []Action{ActionRead, ActionList}},
		{ResourceCase, []Action{ActionCreate, ActionRead, ActionList, ActionUpdate, ActionArchive}},
		{ResourceMedicalFile, []Action{ActionCreate, ActionRead, ActionList, ActionDelete}},
		{ResourceECGResult, []Action{ActionCreate, ActionRead, ActionList, ActionUpdate, ActionExecute}},
		{ResourceMRIResult, []Action{ActionCreate, ActionRead, ActionList, ActionUpdate, ActionExecute}},
		{ResourceReport, []Action{ActionCreate, ActionRead, ActionList, ActionUpdate}},
		{ResourceAccessRequest, []Action{ActionRead, ActionList, ActionGrant, ActionRevoke}},
		{ResourceConversation, []Action{ActionRead, ActionList}},
		{ResourceMessage, []Action{ActionRead, ActionList}},
		{ResourceNotification, []Action{ActionRead, ActionList, ActionUpdate}},
		{ResourceAnalytics, []Action{ActionRead}},
		{ResourceGeography, []Action{ActionRead, ActionList}},
	} {
		for _, act := range p.acts {
			hospitalPolicies = append(hospitalPolicies,
				PermissionPolicy{RoleDoctor, WildcardDomain, p.res, act, EffectAllow})
		}
	}

	// Nurses: read-mostly clinical access.
	for _, p := range []struct {
		res  Resource
		acts []Action
	}{
		{ResourcePatient, []Action{ActionRead, ActionList}},
		{ResourceCase, []Action{ActionRead, ActionList, ActionUpdate}},
		{ResourceMedicalFile, []Action{ActionCreate, ActionRead, ActionList}},
		{ResourceECGResult, []Action{ActionCreate, ActionRead, ActionList, ActionExecute}},
		{ResourceMRIResult, []Action{ActionRead, ActionList}},
		{ResourceReport, []Action{ActionRead, ActionList}},
		{ResourceNotification, []Action{ActionRead, ActionList, ActionUpdate}},
		{ResourceGeography, []Action{ActionRead, ActionList}},
	} {
		for _, act := range p.acts {
			hospitalPolicies = append(hospitalPolicies,
				PermissionPolicy{RoleNurse, WildcardDomain, p.res, act, EffectAllow})
		}
	}

	// Patients: their own assistant chat plus reference data. Row-level
	// ownership checks live in the services.
	for _, p := range []struct {
		res  Resource
		acts []Action
	}{
		{ResourceConversation, []Action{ActionCreate, ActionRead, ActionList}},
		{ResourceMessage, []Action{ActionCreate, ActionRead, ActionList}},
		{ResourceAccessRequest, []Action{ActionCreate, ActionRead, ActionList}},
		{ResourceNotification, []Action{ActionRead, ActionList, ActionUpdate}},
		{ResourceGeography, []Action{ActionRead, ActionList}},
	} {
		for _, act := range p.acts {
			hospitalPolicies = append(hospitalPolicies,
				PermissionPolicy{RolePatient, WildcardDomain, p.res, act, EffectAllow})
		}
	}

	// User-level policies (domain: user:*)
	userPolicies := []PermissionPolicy{
		{RoleUserSelf, WildcardDomain, ResourceUser, ActionRead, EffectAllow},
		{RoleUserSelf, WildcardDomain, ResourceUser, ActionUpdate, EffectAllow},
		{RoleUserSelf, WildcardDomain, ResourceNotification, ActionRead, EffectAllow},
		{RoleUserSelf, WildcardDomain, ResourceNotification, ActionUpdate, EffectAllow},
	}

	allPolicies := append(append(sysPolicies, hospitalPolicies...), userPolicies...)

	for _, p := range allPolicies {
		added, err := auth.AddPermission(ctx, p.Subject, p.Domain, p.Object, p.Action, p.Effect)
		if err != nil {
			logger.Error("failed to add policy", "policy", p, "error", err)
			return err
		}
		if added {
			logger.Debug("added policy", "role", p.Subject, "domain", p.Domain, "resource", p.Object, "action", p.Action)
		}
	}

	logger.Info("seeded default RBAC policies", "count", len(allPolicies))
	return nil
}

// AssignUserSelfRole assigns the user:self role in the user's private domain.
// Call this when creating a new user.
func AssignUserSelfRole(ctx context.Context, auth IAuthorization, userID string) error {
	domain := UserDomain(userID)
	subject := GroupSubject(userID)

	_, err := auth.AddRoleForUserInDomain(ctx, subject, RoleUserSelf, domain)
	return err
}

// AssignHospitalRole assigns a hospital-scoped role to a user.
// Super admins are assigned in the sys domain instead.
func AssignHospitalRole(ctx context.Context, auth IAuthorization, userID, hospitalID string, role roles.Role) error {
	subject := GroupSubject(userID)

	if role == roles.SuperAdmin {
		_, err := auth.AddRoleForUserInDomain(ctx, subject, RoleSuperAdmin, DomainSys)
		return err
	}

	// Users without a hospital assignment get their role in the sys
	// domain so enforcement still has somewhere to look.
	domain := DomainSys
	if hospitalID != "" {
		domain = HospitalDomain(hospitalID)
	}

	_, err := auth.AddRoleForUserInDomain(ctx, subject, RBACRole(role), domain)
	return err
}

// RemoveHospitalRole removes a hospital-scoped role from a user.
func RemoveHospitalRole(ctx context.Context, auth IAuthorization, userID, hospitalID string, role roles.Role) error {
	subject := GroupSubject(userID)
	_, err := auth.RemoveRoleForUserInDomain(ctx, subject, RBACRole(role), HospitalDomain(hospitalID))
	return err
}

// GetHospitalRoles returns all roles a user has in a specific hospital.
func GetHospitalRoles(ctx context.Context, auth IAuthorization, userID, hospitalID string) ([]Role, error) {
	return auth.GetRolesForUserInDomain(ctx, GroupSubject(userID), HospitalDomain(hospitalID))
}

// RemoveAllGrants drops every role the user holds in every domain,
// including the self role. Used when compensating a failed provisioning
// run or deactivating a user.
func RemoveAllGrants(ctx context.Context, auth IAuthorization, userID string) error {
	if userID == "" {
		return fmt.Errorf("remove grants: empty user id")
	}
	_, err := auth.Raw().DeleteUser(userID)
	return err
}
