// Package config loads imageloader settings.
//
// Settings come from, in increasing priority: built-in defaults, an
// optional config file (imageloader.yaml, .json or .toml in the working
// directory, or an explicit path) and IMAGELOADER_* environment variables
// (IMAGELOADER_FETCH_TIMEOUT overrides fetch.timeout).
//
// # Configuration File Structure
//
//	fetch:
//	  timeout: 30s
//	  max_bytes: 20971520
//	  device_pixel_ratio: 2
//	  viewport_width: 0
//	  user_agent: imageloader/1.0
//	  base_url: https://cdn.example.com/
//	  root: ./public
//	server:
//	  addr: 127.0.0.1:8080
//	  pretty: false
//	  render_timeout: 10s
//	s3:
//	  region: eu-west-1
//	  endpoint: http://localhost:9000
//	  path_style: true
//	metrics:
//	  enabled: true
//	  namespace: imageloader
//	log:
//	  level: info
//
// # Usage
//
//	cfg, err := config.Load("")
//	if err != nil {
//	    errors.PrintError(os.Stderr, err)
//	    os.Exit(1)
//	}
//	fmt.Println("Timeout:", cfg.Fetch.Timeout)
package config
