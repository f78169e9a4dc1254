package authorize

import (
	"fmt"
	"regexp"
)

type Action string
type Resource string
type Role string
type Domain string

// ----------------------------
// Actions
// ----------------------------

const (
	ActionCreate Action = "create"
	ActionRead   Action = "read"
	ActionUpdate Action = "update"
	ActionDelete Action = "delete"
	ActionList   Action = "list"

	// Power actions
	ActionManage  Action = "manage"  // CRUD + list
	ActionExecute Action = "execute" // run analysis, trigger jobs

	// Lifecycle actions
	ActionArchive Action = "archive"

	// RBAC-specific actions
	ActionGrant  Action = "grant"
	ActionRevoke Action = "revoke"
)

const (
	WildcardAction Action = "*"
)

var KnownActions = map[Action]struct{}{
	ActionCreate: {}, ActionRead: {}, ActionUpdate: {}, ActionDelete: {}, ActionList: {},
	ActionManage: {}, ActionExecute: {},
	ActionArchive: {},
	ActionGrant:   {}, ActionRevoke: {},
}

// ----------------------------
// Resources
// ----------------------------

const (
	WildcardResource Resource = "*"

	// Identity / profiles
	ResourceUser          Resource = "user"
	ResourcePatient       Resource = "patient"
	ResourceDoctor        Resource = "doctor"
	ResourceNurse         Resource = "nurse"
	ResourceAdministrator Resource = "administrator"

	// Clinical records
	ResourceCase        Resource = "case"
	ResourceMedicalFile Resource = "medical_file"
	ResourceECGResult   Resource = "ecg_result"
	ResourceMRIResult   Resource = "mri_result"
	ResourceReport      Resource = "report"

	// Assistant chat
	ResourceConversation     Resource = "conversation"
	ResourceMessage          Resource = "message"
	ResourceAccessRequest    Resource = "access_request"
	ResourceAccessPermission Resource = "access_permission"

	// Communication
	ResourceNotification Resource = "notification"

	// Reference and reporting data
	ResourceAnalytics Resource = "analytics"
	ResourceGeography Resource = "geography"

	// System / platform admin
	ResourceSystem Resource = "system"
	ResourceAudit  Resource = "audit"
	ResourceRBAC   Resource = "rbac"
)

var KnownResources = map[Resource]struct{}{
	ResourceUser: {}, ResourcePatient: {}, ResourceDoctor: {}, ResourceNurse: {}, ResourceAdministrator: {},
	ResourceCase: {}, ResourceMedicalFile: {}, ResourceECGResult: {}, ResourceMRIResult: {}, ResourceReport: {},
	ResourceConversation: {}, ResourceMessage: {}, ResourceAccessRequest: {}, ResourceAccessPermission: {},
	ResourceNotification: {},
	ResourceAnalytics:    {}, ResourceGeography: {},
	ResourceSystem: {}, ResourceAudit: {}, ResourceRBAC: {},
}

// ----------------------------
// Roles
// ----------------------------
//
// These are the "policy subjects" we assign to users via grouping policies.

const (
	WildcardRole Role = "*"

	// Platform role (domain = sys)
	RoleSuperAdmin Role = "role:super_admin"

	// Hospital roles (domain = hospital:<uuid>)
	RoleAdministrator Role = "role:administrator"
	RoleDoctor        Role = "role:doctor"
	RoleNurse         Role = "role:nurse"
	RolePatient       Role = "role:patient"

	// Private user scope (domain = user:<uuid>)
	RoleUserSelf Role = "role:user:self"
)

var KnownRoles = map[Role]struct{}{
	RoleSuperAdmin:    {},
	RoleAdministrator: {},
	RoleDoctor:        {},
	RoleNurse:         {},
	RolePatient:       {},
	RoleUserSelf:      {},
}

// ----------------------------
// Domains
// ----------------------------

const (
	DomainSys Domain = "sys"
)

// Domain prefixes (for exact domains we generate per entity)
const (
	DomainPrefixHospital Domain = "hospital:"
	DomainPrefixUser     Domain = "user:"
)

const (
	WildcardDomain Domain = "*"
)

var (
	reUUID = regexp.MustCompile(`^[0-9a-fA-F-]{36}$`)
)

// Domain builders (typed, safe)
func HospitalDomain(hospitalID string) Domain {
	return Domain(fmt.Sprintf("%s%s", DomainPrefixHospital, hospitalID))
}

func UserDomain(userID string) Domain {
	return Domain(fmt.Sprintf("%s%s", DomainPrefixUser, userID))
}

// IsValidDomain checks whether d is a recognised domain string.
func IsValidDomain(d Domain) bool {
	if d == DomainSys || d == WildcardDomain {
		return true
	}

	s := string(d)
	switch {
	case len(s) > len(DomainPrefixHospital) && s[:len(DomainPrefixHospital)] == string(DomainPrefixHospital):
		return reUUID.MatchString(s[len(DomainPrefixHospital):])
	case len(s) > len(DomainPrefixUser) && s[:len(DomainPrefixUser)] == string(DomainPrefixUser):
		return reUUID.MatchString(s[len(DomainPrefixUser):])
	default:
		return false
	}
}

// ----------------------------
// Casbin tuple helpers
// ----------------------------

type PolicyEffect string

const (
	EffectAllow PolicyEffect = "allow"
	EffectDeny  PolicyEffect = "deny"
)

// PolicySubject is the p.sub in Casbin: either a role (preferred) or a user/service id.
type PolicySubject string

// GroupSubject is the g.sub in Casbin: a concrete principal id (user_id or service_id).
type GroupSubject string

// Grouping rows: g, user_id, role, domain
type GroupingPolicy struct {
	Subject GroupSubject
	Role    Role
	Domain  Domain
}

// Permission rows: p, role, domain, resource, action, eft
type PermissionPolicy struct {
	Subject Role
	Domain  Domain
	Object  Resource
	Action  Action
	Effect  PolicyEffect
}
