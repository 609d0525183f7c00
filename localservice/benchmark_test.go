package localservice

import (
	"context"
	"testing"

	securerpc "github.com/rbaliyan/secure-rpc"
	"github.com/rbaliyan/secure-rpc/client"
	"github.com/rbaliyan/secure-rpc/transport"
)

func benchmarkClient(b *testing.B) *client.CompleteClient {
	b.Helper()
	conn := transport.NewPipe(New())
	b.Cleanup(func() { conn.Close() })
	return client.NewCompleteClient(conn)
}

func benchmarkPayload(size int) securerpc.SecureBytes {
	payload := make([]byte, size)
	for i := range payload {
		payload[i] = byte(i % 256)
	}
	return securerpc.NewSecureBytes(payload)
}

func BenchmarkPing(b *testing.B) {
	ctx := context.Background()
	c := benchmarkClient(b)

	b.ResetTimer()
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		if _, err := c.Ping(ctx); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkEncrypt1KB(b *testing.B) {
	ctx := context.Background()
	c := benchmarkClient(b)
	payload := benchmarkPayload(1024)

	b.ResetTimer()
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		if _, err := c.EncryptWithKey(ctx, payload, ""); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkDecrypt1KB(b *testing.B) {
	ctx := context.Background()
	c := benchmarkClient(b)
	sealed, err := c.EncryptWithKey(ctx, benchmarkPayload(1024), "")
	if err != nil {
		b.Fatal(err)
	}

	b.ResetTimer()
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		if _, err := c.DecryptWithKey(ctx, sealed, ""); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkEncrypt64KB(b *testing.B) {
	ctx := context.Background()
	c := benchmarkClient(b)
	payload := benchmarkPayload(64 * 1024)

	b.ResetTimer()
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		if _, err := c.EncryptWithKey(ctx, payload, ""); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkHash64KB(b *testing.B) {
	ctx := context.Background()
	c := benchmarkClient(b)
	payload := benchmarkPayload(64 * 1024)

	b.ResetTimer()
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		if _, err := c.Hash(ctx, payload); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkSignVerify(b *testing.B) {
	ctx := context.Background()
	c := benchmarkClient(b)
	data := benchmarkPayload(256)
	sig, err := c.Sign(ctx, data, DefaultKeyID)
	if err != nil {
		b.Fatal(err)
	}

	b.ResetTimer()
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		ok, err := c.Verify(ctx, sig, data, DefaultKeyID)
		if err != nil {
			b.Fatal(err)
		}
		if !ok {
			b.Fatal("signature did not verify")
		}
	}
}
