// TicketAI - Event Ticketing Recommendation and Anomaly Detection
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/ticketai

// Package config loads TicketAI configuration with Koanf.
//
// Sources are layered, later sources overriding earlier ones:
//
//  1. Struct defaults (defaultConfig)
//  2. A YAML file: CONFIG_PATH, else ./config.yaml, ./config.yml,
//     /etc/ticketai/config.yaml
//  3. An optional .env file (DOTENV_PATH, else ./.env), loaded into the
//     process environment without overriding variables already set
//  4. Environment variables, mapped to keys by envTransformFunc
//
// The merged result is validated before Load returns.
//
// # Environment Variables
//
// Server:
//   - HTTP_HOST / SERVER_HOST (default: 0.0.0.0)
//   - HTTP_PORT / SERVER_PORT (default: 8000)
//   - HTTP_TIMEOUT (default: 30s)
//   - SHUTDOWN_TIMEOUT (default: 10s)
//
// Logging:
//   - LOG_LEVEL, LOG_FORMAT, LOG_CALLER
//
// Backend gateway:
//   - BACKEND_API_URL (alias SPRINGBOOT_API_URL); empty runs on synthetic data
//   - BACKEND_FETCH_TIMEOUT (default: 30s), BACKEND_EVENT_TIMEOUT (default: 10s)
//   - BREAKER_MAX_REQUESTS, BREAKER_INTERVAL, BREAKER_TIMEOUT,
//     BREAKER_MIN_REQUESTS, BREAKER_FAILURE_RATIO
//   - SYNTHETIC_SEED (default: 42)
//
// Models:
//   - RECOMMENDATION_MODEL_PATH, ANOMALY_MODEL_PATH
//   - RECOMMEND_N_NEIGHBORS, RECOMMEND_MIN_INTERACTIONS,
//     RECOMMEND_DEFAULT_LIMIT, RECOMMEND_MAX_LIMIT
//   - ANOMALY_CONTAMINATION, ANOMALY_N_ESTIMATORS, ANOMALY_MAX_SAMPLES,
//     ANOMALY_RANDOM_SEED, ANOMALY_MIN_RECORDS
//   - {RECOMMEND,ANOMALY}_TRAIN_ON_STARTUP, {RECOMMEND,ANOMALY}_TRAIN_INTERVAL
//
// Cache and security:
//   - CACHE_DIR, CACHE_IN_MEMORY, TITLE_CACHE_TTL
//   - CORS_ORIGINS (comma-separated), RATE_LIMIT_REQUESTS,
//     RATE_LIMIT_WINDOW, DISABLE_RATE_LIMIT
package config
