package controllers

import (
	"errors"
	"log"
	"strings"
	"time"

	"condingo/database"
	"condingo/models"
	"condingo/utils"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// GetLicenseStatus reports whether the caller holds a license and any pending
// (unredeemed) key issued to their email.
func GetLicenseStatus(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"detail": "Unauthorized."})
	}

	var user models.User
	if err := database.Database.Db.First(&user, userID).Error; err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"detail": "User not found."})
	}

	var pending models.LicenseKey
	hasPending := database.Database.Db.
		Where("email = ? AND redeemed_by IS NULL", user.Email).
		First(&pending).Error == nil

	data := fiber.Map{
		"has_license":     user.License != "",
		"pending_request": hasPending,
		"pending_code":    nil,
	}
	if hasPending {
		data["pending_code"] = pending.Code
	}
	return c.JSON(data)
}

// RequestLicense generates (or re-uses) a pending license key for the caller
// and emails it to them.
func RequestLicense(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"detail": "Unauthorized."})
	}

	db := database.Database.Db

	var user models.User
	if err := db.First(&user, userID).Error; err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"detail": "User not found."})
	}

	if user.License != "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"detail": "You already have a license."})
	}

	var pending models.LicenseKey
	err := db.Where("email = ? AND redeemed_by IS NULL", user.Email).First(&pending).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		pending = models.LicenseKey{
			Code:       utils.GenerateLicenseCode(),
			Email:      user.Email,
			IssuedToID: user.ID,
		}
		if err := db.Create(&pending).Error; err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"detail": "Failed to issue license."})
		}
	} else if err != nil {
		log.Printf("Failed to look up pending license for %s: %v", user.Email, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"detail": "Failed to issue license."})
	}

	if err := utils.SendLicenseEmail(user.Email, user.UserName, pending.Code); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"detail": "Unable to send license email: " + err.Error()})
	}

	return c.JSON(fiber.Map{"detail": "License sent to your email."})
}

// RedeemLicense binds a pending license key to the caller. Keys are bound to
// the email they were issued for and can only be redeemed once.
func RedeemLicense(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"detail": "Unauthorized."})
	}

	db := database.Database.Db

	var user models.User
	if err := db.First(&user, userID).Error; err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"detail": "User not found."})
	}

	var body struct {
		Code string `json:"code"`
	}
	if err := c.BodyParser(&body); err != nil || strings.TrimSpace(body.Code) == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"detail": "License code is required."})
	}

	var key models.LicenseKey
	if err := db.Where("code = ?", strings.TrimSpace(body.Code)).First(&key).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"detail": "License not found."})
	}

	if key.RedeemedBy != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"detail": "License has already been redeemed."})
	}

	if !strings.EqualFold(key.Email, user.Email) {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"detail": "This license was issued to a different email."})
	}

	now := time.Now()
	err := db.Transaction(func(tx *gorm.DB) error {
		key.RedeemedBy = &user.ID
		key.RedeemedAt = &now
		if err := tx.Save(&key).Error; err != nil {
			return err
		}
		return tx.Model(&models.User{}).Where("id = ?", user.ID).Update("license", key.Code).Error
	})
	if err != nil {
		log.Printf("Failed to redeem license %s for user %d: %v", key.Code, user.ID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"detail": "Failed to redeem license."})
	}

	return c.JSON(fiber.Map{"detail": "License redeemed successfully.", "license_code": key.Code})
}
