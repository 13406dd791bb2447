package postgres

import "weddingmarket/internal/domain"

// Role-dependent column names. Role is a closed enum validated at the
// boundary, so interpolating these into SQL is safe.

func unreadColumn(role domain.Role) string {
	if role == domain.RoleVendor {
		return "vendor_unread_count"
	}
	return "couple_unread_count"
}

func deletedColumn(role domain.Role) string {
	if role == domain.RoleVendor {
		return "deleted_by_vendor"
	}
	return "deleted_by_couple"
}

func deletedAtColumn(role domain.Role) string {
	if role == domain.RoleVendor {
		return "vendor_deleted_at"
	}
	return "couple_deleted_at"
}

func ownerColumn(role domain.Role) string {
	if role == domain.RoleVendor {
		return "vendor_id"
	}
	return "couple_id"
}
