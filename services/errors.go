package services

import "errors"

// Сентинельные ошибки доменного слоя. Хендлеры маппят их в HTTP-статусы
// через errors.Is, фоновые выборки логируют и отдают пустой результат.
var (
	// ErrUpload - не удалось сохранить файл в хранилище, запись не создается
	ErrUpload = errors.New("upload failed")
	// ErrPersist - файл сохранен, но запись в БД не прошла (файл-сирота)
	ErrPersist = errors.New("persist failed")
	// ErrNotFound - запрошенная сущность не существует
	ErrNotFound = errors.New("not found")
	// ErrForbidden - операция доступна только владельцу
	ErrForbidden = errors.New("forbidden")
	// ErrUsernameTaken - имя пользователя уже занято другим профилем
	ErrUsernameTaken = errors.New("username already taken")
	// ErrSelfFollow - попытка подписаться на самого себя
	ErrSelfFollow = errors.New("cannot follow yourself")
)
