// Package localstore はJSONファイル1つをキーバリューとして使う永続化層。
// 保存レイアウトは元アプリのローカルストレージと同じ形:
//
//	users        email → {display_name, password}
//	current_user ログイン中ユーザーのemail（未ログイン時はキー自体が無い）
//	products     商品リスト
//	cart_<id>    ユーザーごとのカート明細リスト（未ログインは cart_anon）
package localstore

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"sync"
)

const (
	usersKey       = "users"
	currentUserKey = "current_user"
	productsKey    = "products"
	cartKeyPrefix  = "cart_"
	anonCartBucket = "anon"
)

type Store struct {
	path string

	mu   sync.Mutex
	data map[string]json.RawMessage
}

// Open はファイルを読み込んでStoreを返す。ファイルが無ければ空で開始する。
func Open(path string) (*Store, error) {
	s := &Store{
		path: path,
		data: map[string]json.RawMessage{},
	}

	raw, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return s, nil
	}
	if err != nil {
		return nil, err
	}

	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &s.data); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// 呼び出し側がmuを持っていること
func (s *Store) flushLocked() error {
	raw, err := json.MarshalIndent(s.data, "", "  ")
	if err != nil {
		return err
	}

	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	return os.WriteFile(s.path, raw, 0o644)
}

// Tx用のスナップショット
func (s *Store) cloneDataLocked() map[string]json.RawMessage {
	clone := make(map[string]json.RawMessage, len(s.data))
	for k, v := range s.data {
		cp := make(json.RawMessage, len(v))
		copy(cp, v)
		clone[k] = cp
	}
	return clone
}

func cartKeyFor(userID string) string {
	if userID == "" {
		return cartKeyPrefix + anonCartBucket
	}
	return cartKeyPrefix + userID
}

// キーの値をvへデコード。キーが無ければfalse。
func (s *Store) getLocked(key string, v any) (bool, error) {
	raw, ok := s.data[key]
	if !ok {
		return false, nil
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return false, err
	}
	return true, nil
}

func (s *Store) setLocked(key string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return err
	}
	s.data[key] = raw
	return nil
}
