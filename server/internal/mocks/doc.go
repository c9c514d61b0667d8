// Package mocks содержит моки репозиториев, хранилища и сервисов на testify/mock.
package mocks
