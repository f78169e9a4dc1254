package analytics

import "errors"

var ErrAdminOnly = errors.New("audit logs require an administrator role")
