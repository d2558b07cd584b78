package controllers

import (
	"errors"
	"log"
	"strconv"

	"github.com/bluezpowerhouse/autoshop/app/models"
	"github.com/bluezpowerhouse/autoshop/app/repository"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type accountRequest struct {
	Provider         string `json:"provider"`
	AccountName      string `json:"account_name"`
	APIKey           string `json:"api_key"`
	APISecret        string `json:"api_secret"`
	WebhookSecret    string `json:"webhook_secret"`
	RequireSignature bool   `json:"require_signature"`
}

// HandleAccountsList returns every configured carrier account, active or not.
// Secrets never leave the server; the model keeps them out of JSON.
func HandleAccountsList(c *fiber.Ctx) error {
	accounts, err := repository.GetGlobalRepositories().ShippingAccount.List()
	if err != nil {
		log.Printf("Account listing error: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Error loading accounts"})
	}
	return c.JSON(fiber.Map{"accounts": accounts})
}

// HandleAccountCreate registers a new carrier account.
func HandleAccountCreate(c *fiber.Ctx) error {
	var req accountRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	account := models.ShippingAccount{
		Provider:         models.NormalizeProvider(req.Provider),
		AccountName:      req.AccountName,
		APIKey:           req.APIKey,
		APISecret:        req.APISecret,
		WebhookSecret:    req.WebhookSecret,
		RequireSignature: req.RequireSignature,
		IsActive:         true,
	}
	if err := account.Validate(); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Validation failed: " + err.Error()})
	}

	if err := repository.GetGlobalRepositories().ShippingAccount.Create(&account); err != nil {
		log.Printf("Account creation error: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Error creating account"})
	}

	return c.Status(fiber.StatusCreated).JSON(account)
}

// HandleAccountUpdate updates an existing carrier account. Blank credential
// fields keep their stored values so the UI never has to round-trip secrets.
func HandleAccountUpdate(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid account id"})
	}

	repos := repository.GetGlobalRepositories()
	account, err := repos.ShippingAccount.GetByID(uint(id))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "account not found"})
		}
		log.Printf("Account lookup error: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Error loading account"})
	}

	var req accountRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	if req.Provider != "" {
		account.Provider = models.NormalizeProvider(req.Provider)
	}
	if req.AccountName != "" {
		account.AccountName = req.AccountName
	}
	if req.APIKey != "" {
		account.APIKey = req.APIKey
	}
	if req.APISecret != "" {
		account.APISecret = req.APISecret
	}
	if req.WebhookSecret != "" {
		account.WebhookSecret = req.WebhookSecret
	}
	account.RequireSignature = req.RequireSignature

	if err := account.Validate(); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Validation failed: " + err.Error()})
	}

	if err := repos.ShippingAccount.Update(account); err != nil {
		log.Printf("Account update error: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Error updating account"})
	}

	return c.JSON(account)
}

// HandleAccountDeactivate soft-deletes a carrier account. Existing shipments
// keep their owner; only future webhooks stop resolving to it.
func HandleAccountDeactivate(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid account id"})
	}

	if err := repository.GetGlobalRepositories().ShippingAccount.Deactivate(uint(id)); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "account not found"})
		}
		log.Printf("Account deactivation error: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Error deactivating account"})
	}

	return c.JSON(fiber.Map{"success": true})
}
