package usecase

import "errors"

// エンジンの失敗はすべて呼び出し側へ返す回復可能な結果。
// panicで境界を越えない。
var (
	ErrNotAuthenticated = errors.New("not authenticated")
	ErrOutOfStock       = errors.New("out of stock")
	ErrEmptyCart        = errors.New("cart is empty")
	ErrInvalidValue     = errors.New("invalid value")
	ErrNotOwner         = errors.New("not owner")
	ErrProductNotFound  = errors.New("product not found")
	ErrProductExists    = errors.New("product already exists")

	// ログインの失敗は元アプリどおり2種類を区別する
	ErrAccountNotFound = errors.New("account not found")
	ErrWrongPassword   = errors.New("wrong password")
)
