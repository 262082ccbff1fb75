package domain

import "errors"

// Бизнес-ошибки. Все детерминированы и терминальны для запроса,
// ретраев в этой подсистеме нет. Маппинг на HTTP-статусы — в transport/web/v1.
var (
	ErrBadParams = errors.New("bad_params")   // 400
	ErrUnauth    = errors.New("unauthorized") // 401
	ErrForbidden = errors.New("forbidden")    // 403
	// NotFound намеренно неразличим с «нет прав видеть ресурс»,
	// чтобы не раскрывать существование чужих объектов.
	ErrNotFound   = errors.New("not_found")  // 404
	ErrUnexpected = errors.New("unexpected") // 500

	// Нарушения инвариантов шаринга (400, ошибки валидации формы).
	ErrRecipientNotFound = errors.New("recipient_not_found")
	ErrSelfSharing       = errors.New("self_sharing")
	ErrDuplicateShare    = errors.New("non_unique_sharing")
	ErrAlreadyPublic     = errors.New("multiple_public_shares")
	ErrPublicPermission  = errors.New("public_share_view_only")
)
