// file: handlers/upload_handler.go
package handlers

import (
	"fmt"
	"net/url"
	"strconv"
	"time"

	"github.com/anjiri1684/coded/apperr"
	"github.com/cloudinary/cloudinary-go/v2/api"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"github.com/gofiber/fiber/v2"
)

const avatarFolder = "coded_avatars"

// GenerateUploadSignature signs a direct browser upload of an avatar.
func (h *Handler) GenerateUploadSignature(c *fiber.Ctx) error {
	if h.Cloudinary == nil {
		return apperr.Unexpected(fmt.Errorf("cloudinary is not configured"))
	}

	paramsToSign, err := api.StructToParams(uploader.UploadParams{Folder: avatarFolder})
	if err != nil {
		return apperr.Unexpected(fmt.Errorf("prepare signature params: %w", err))
	}
	if paramsToSign == nil {
		paramsToSign = url.Values{}
	}

	timestamp := time.Now().Unix()
	paramsToSign.Set("timestamp", strconv.FormatInt(timestamp, 10))

	signature, err := api.SignParameters(paramsToSign, h.Cloudinary.Config.Cloud.APISecret)
	if err != nil {
		return apperr.Unexpected(fmt.Errorf("sign upload params: %w", err))
	}

	return c.JSON(fiber.Map{
		"signature":  signature,
		"timestamp":  timestamp,
		"api_key":    h.Cloudinary.Config.Cloud.APIKey,
		"cloud_name": h.Cloudinary.Config.Cloud.CloudName,
		"folder":     avatarFolder,
	})
}
