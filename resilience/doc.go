// Package resilience provides retry with backoff and a token bucket rate
// limiter. The httpclient WithRetry and WithRateLimit middleware build on
// them; the REST facade itself never retries.
//
//	limiter := resilience.NewRateLimiter(resilience.RateLimiterConfig{Rate: 20, Burst: 5})
//	t := httpclient.Wrap(adapter,
//	    httpclient.WithRateLimit(limiter),
//	    httpclient.WithRetry(resilience.DefaultRetryConfig()),
//	)
package resilience
