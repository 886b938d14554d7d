// Package main MeetGo Server API
//
//	@title						MeetGo Server API
//	@version					1.0
//	@description				Meeting coordination backend API
//
//	@contact.name				MeetGo Support
//	@contact.email				support@meetgo.dev
//
//	@license.name				MIT
//
//	@host						localhost:8080
//	@BasePath					/api/v1
//
//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				Bearer token authentication. Format: "Bearer {token}"
//
//	@tag.name					Auth
//	@tag.description			Authentication endpoints
//
//	@tag.name					User
//	@tag.description			User account endpoints
//
//	@tag.name					Meeting
//	@tag.description			Meeting and invitation endpoints
//
//	@tag.name					Friend
//	@tag.description			Friend request and friendship endpoints
package main
