package services

import (
	"context"
	"crypto/cipher"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"agencydesk-backend/internal/cache"
	"agencydesk-backend/internal/crypto"
	"agencydesk-backend/internal/models"
	"agencydesk-backend/internal/store"
)

var ErrSettingNotFound = errors.New("setting not found")

// Well-known settings keys read by the typed getters.
const (
	SettingContactInfo = "contact_info"
	SettingWhatsApp    = "whatsapp"
	SettingSocialMedia = "social_media"
	SettingCopyright   = "copyright"
)

const settingsCacheTTL = 5 * time.Minute

// ContactInfo is the public contact block of the site footer.
type ContactInfo struct {
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
}

// WhatsAppConfig drives the wa.me deep link.
type WhatsAppConfig struct {
	Number         string `json:"number"`
	DefaultMessage string `json:"default_message"`
}

// SocialMedia holds the footer social links.
type SocialMedia struct {
	Instagram string `json:"instagram"`
	Facebook  string `json:"facebook"`
	LinkedIn  string `json:"linkedin"`
	TikTok    string `json:"tiktok"`
}

// Hardcoded fallbacks used when a row is missing or unreadable, so the
// public site always renders something sensible.
var (
	defaultContactInfo = ContactInfo{
		Email:   "hello@agencydesk.id",
		Phone:   "6281234567890",
		Address: "Jakarta, Indonesia",
	}
	defaultWhatsApp = WhatsAppConfig{
		Number:         "6281234567890",
		DefaultMessage: "Hi! I'm interested in your services.",
	}
	defaultSocialMedia = SocialMedia{}
	defaultCopyright   = "© AgencyDesk. All rights reserved."
)

// secretEnvelope is the stored shape of an encrypted setting value.
type secretEnvelope struct {
	Ciphertext string `json:"ciphertext"`
}

// SettingsService is the single reader and writer of the site_settings
// table. Reads go through Redis; admin writes delete the cached key so the
// next read repopulates it.
type SettingsService struct {
	store store.Store
	cache cache.Cache
	aead  cipher.AEAD
}

func NewSettingsService(s store.Store, c cache.Cache, encryptionKey []byte) (*SettingsService, error) {
	aead, err := crypto.NewAESGCM(encryptionKey)
	if err != nil {
		return nil, fmt.Errorf("settings: init cipher: %w", err)
	}
	return &SettingsService{
		store: s,
		cache: c,
		aead:  aead,
	}, nil
}

func cacheKey(key string) string { return "settings:" + key }

// getValue returns the decrypted JSON value of a key, read-through cached.
func (s *SettingsService) getValue(ctx context.Context, key string) (json.RawMessage, error) {
	if cached, err := s.cache.Get(ctx, cacheKey(key)); err == nil {
		return json.RawMessage(cached), nil
	} else if !errors.Is(err, cache.ErrMiss) {
		log.Printf("[Settings] WARN: cache read for %s failed: %v", key, err)
	}

	row, err := s.store.GetSetting(ctx, key)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrSettingNotFound
		}
		return nil, fmt.Errorf("reading setting %s failed: %w", key, err)
	}

	value := row.Value
	if row.IsSecret {
		value, err = s.decrypt(row.Value)
		if err != nil {
			return nil, fmt.Errorf("decrypting setting %s failed: %w", key, err)
		}
	}

	if err := s.cache.Set(ctx, cacheKey(key), string(value), settingsCacheTTL); err != nil {
		log.Printf("[Settings] WARN: cache write for %s failed: %v", key, err)
	}
	return value, nil
}

// GetSecret returns the decrypted plain value of a secret key (used by
// server-side consumers such as integration clients).
func (s *SettingsService) GetSecret(ctx context.Context, key string) (string, error) {
	value, err := s.getValue(ctx, key)
	if err != nil {
		return "", err
	}
	var plain string
	if err := json.Unmarshal(value, &plain); err != nil {
		// Not a JSON string; hand back the raw value.
		return string(value), nil
	}
	return plain, nil
}

// ContactInfo returns the contact block, falling back to defaults.
func (s *SettingsService) ContactInfo(ctx context.Context) ContactInfo {
	out := defaultContactInfo
	s.getInto(ctx, SettingContactInfo, &out, defaultContactInfo)
	return out
}

// WhatsApp returns the wa.me config, falling back to defaults.
func (s *SettingsService) WhatsApp(ctx context.Context) WhatsAppConfig {
	out := defaultWhatsApp
	s.getInto(ctx, SettingWhatsApp, &out, defaultWhatsApp)
	return out
}

// SocialMedia returns the social links, falling back to defaults.
func (s *SettingsService) SocialMedia(ctx context.Context) SocialMedia {
	out := defaultSocialMedia
	s.getInto(ctx, SettingSocialMedia, &out, defaultSocialMedia)
	return out
}

// Copyright returns the footer copyright line, falling back to a default.
func (s *SettingsService) Copyright(ctx context.Context) string {
	out := defaultCopyright
	s.getInto(ctx, SettingCopyright, &out, defaultCopyright)
	return out
}

// getInto decodes the stored value into dst, restoring fallback on any
// failure. Missing rows are expected and not logged.
func (s *SettingsService) getInto(ctx context.Context, key string, dst, fallback interface{}) {
	value, err := s.getValue(ctx, key)
	if err != nil {
		if !errors.Is(err, ErrSettingNotFound) {
			log.Printf("[Settings] WARN: reading %s failed, using fallback: %v", key, err)
		}
		return
	}
	if err := json.Unmarshal(value, dst); err != nil {
		log.Printf("[Settings] WARN: setting %s is malformed, using fallback: %v", key, err)
		// dst may be half-written; restore the fallback.
		if b, merr := json.Marshal(fallback); merr == nil {
			_ = json.Unmarshal(b, dst)
		}
	}
}

// List returns all settings rows with secret values redacted.
func (s *SettingsService) List(ctx context.Context) ([]models.SettingResponse, error) {
	rows, err := s.store.ListSettings(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing settings failed: %w", err)
	}
	out := make([]models.SettingResponse, 0, len(rows))
	for _, row := range rows {
		resp := models.SettingResponse{
			Key:       row.Key,
			IsSecret:  row.IsSecret,
			UpdatedAt: row.UpdatedAt,
		}
		if !row.IsSecret {
			resp.Value = row.Value
		}
		out = append(out, resp)
	}
	return out, nil
}

// Put writes a settings key and invalidates its cached copy. Secret values
// are AES-GCM encrypted before storage.
func (s *SettingsService) Put(ctx context.Context, key string, req models.UpdateSettingRequest) (*models.SettingResponse, error) {
	key = strings.TrimSpace(strings.ToLower(key))
	if key == "" {
		return nil, fmt.Errorf("%w: settings key is required", ErrValidation)
	}
	if len(req.Value) == 0 || !json.Valid(req.Value) {
		return nil, fmt.Errorf("%w: value must be valid JSON", ErrValidation)
	}

	value := req.Value
	if req.IsSecret {
		encrypted, err := s.encrypt(req.Value)
		if err != nil {
			return nil, fmt.Errorf("encrypting setting %s failed: %w", key, err)
		}
		value = encrypted
	}

	row := &models.SiteSetting{
		Key:      key,
		Value:    value,
		IsSecret: req.IsSecret,
	}
	if err := s.store.PutSetting(ctx, row); err != nil {
		return nil, fmt.Errorf("writing setting %s failed: %w", key, err)
	}

	if _, err := s.cache.Del(ctx, cacheKey(key)); err != nil {
		log.Printf("[Settings] WARN: cache invalidation for %s failed: %v", key, err)
	}
	log.Printf("[Settings] Updated %s (secret=%t)", key, req.IsSecret)

	resp := models.SettingResponse{
		Key:       row.Key,
		IsSecret:  row.IsSecret,
		UpdatedAt: row.UpdatedAt,
	}
	if !row.IsSecret {
		resp.Value = row.Value
	}
	return &resp, nil
}

// Delete removes a settings key and its cached copy.
func (s *SettingsService) Delete(ctx context.Context, key string) error {
	if err := s.store.DeleteSetting(ctx, key); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrSettingNotFound
		}
		return fmt.Errorf("deleting setting %s failed: %w", key, err)
	}
	if _, err := s.cache.Del(ctx, cacheKey(key)); err != nil {
		log.Printf("[Settings] WARN: cache invalidation for %s failed: %v", key, err)
	}
	return nil
}

func (s *SettingsService) encrypt(plain json.RawMessage) (json.RawMessage, error) {
	ciphertext, err := crypto.Encrypt(s.aead, plain)
	if err != nil {
		return nil, err
	}
	return json.Marshal(secretEnvelope{
		Ciphertext: base64.StdEncoding.EncodeToString(ciphertext),
	})
}

func (s *SettingsService) decrypt(stored json.RawMessage) (json.RawMessage, error) {
	var env secretEnvelope
	if err := json.Unmarshal(stored, &env); err != nil {
		return nil, fmt.Errorf("malformed secret envelope: %w", err)
	}
	raw, err := base64.StdEncoding.DecodeString(env.Ciphertext)
	if err != nil {
		return nil, fmt.Errorf("malformed secret ciphertext: %w", err)
	}
	return crypto.Decrypt(s.aead, raw)
}
