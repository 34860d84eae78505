// Package main CollabHub Server API
//
//	@title						CollabHub API
//	@version					1.0
//	@description				Collaboration lifecycle API for brands, influencers, channels and agencies.
//
//	@BasePath					/api/v1
//
//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				Bearer token authentication. Format: "Bearer {token}"
//
//	@tag.name					Collaboration
//	@tag.description			Collaboration requests, negotiation, payment, work, payout and disputes
package main
