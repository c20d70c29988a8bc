// Package docs Sites Microservice API.
//
// Микросервис обнаружения и ранжирования "сакральных мест" - устойчивых
// географических кластеров пользовательской активности.
//
// Основные возможности:
// - Автоматическое обнаружение сайтов кластеризацией контента
// - Ручное создание и архивация сайтов
// - Семифакторное ранжирование сайтов с уровнями популярности
// - Таблица лидеров с фильтрами по уровню и географической зоне
// - Асинхронная запись активности через Redis Streams
//
//	Schemes: http, https
//	BasePath: /
//	Version: 1.0.0
//
//	Consumes:
//	- application/json
//
//	Produces:
//	- application/json
//
//	Security:
//	- api_key:
//
//	SecurityDefinitions:
//	api_key:
//	     type: apiKey
//	     name: Authorization
//	     in: header
//
// swagger:meta
package docs
