package service

import (
	"errors"

	"gorm.io/gorm"
)

var (
	ErrSelfLike           = errors.New("cannot like own question or answer")
	ErrSelfMark           = errors.New("cannot mark own answer as correct")
	ErrForbidden          = errors.New("only the question author can mark the correct answer")
	ErrNotFound           = errors.New("not found")
	ErrInvalidTarget      = errors.New("invalid like target")
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrUsernameTaken      = errors.New("username already taken")
	ErrInvalidToken       = errors.New("invalid token")

	// 事务内部使用：回答已被采纳，回滚并按无操作返回
	errAlreadyCorrect = errors.New("answer already marked correct")
)

// notFound 把 gorm 的记录不存在映射为业务错误
func notFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}
