// Package config loads runtime configuration for the Photobooth terminal client.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Environment variables with the PHOTOBOOTH_ prefix, after loading an
//     optional dotenv file (-env path, or ./.env when present).
//  3. Optional JSON file selected via flags: -c or -config.
//  4. Command-line flags, which override earlier values.
//
// Supported flags
//
//	-a string      base URL of the server (default http://127.0.0.1:5000)
//	-f string      folder id to upload into
//	-t string      upload token of that folder
//	-s string      session cookie of the booth owner
//	-i int         online status check interval (seconds)
//	-d string      download directory
//	-db string     local history database path
//	-camera string image file or directory used as the camera
//	-autostart     start scanning on launch
//	-l string      log level
//
// # JSON schema
//
//	{
//	  "server_url": "http://127.0.0.1:5000",
//	  "folder_id": "f1",
//	  "token": "abc",
//	  "online_check_interval": "3s",
//	  "toast_delay": "5s",
//	  "s3": {"bucket": "booth", "region": "eu-west-1"}
//	}
package config
