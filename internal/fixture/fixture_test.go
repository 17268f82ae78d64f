// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package fixture

import (
	"testing"

	"code.hybscloud.com/shmpipe"
)

func TestProducerConsumerDirectOverOneRegion(t *testing.T) {
	region, err := shmpipe.NewRegion(32, 16).Create(make([]byte, 4096))
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	w := shmpipe.NewWriter(region)
	r := shmpipe.NewReader(region)

	const targetBytes = 4096 * 8
	producer := NewProducer(w, targetBytes)
	consumer := NewConsumer(r, targetBytes)

	done := make(chan struct{})
	go func() { producer.Run(); close(done) }()
	consumer.Run()
	<-done

	if consumer.Err() != nil {
		t.Fatalf("consumer: %v", consumer.Err())
	}
	if consumer.ConsumedBytes() != targetBytes {
		t.Fatalf("ConsumedBytes: got %d, want %d", consumer.ConsumedBytes(), targetBytes)
	}
}

func TestProducerTinyRecordRun(t *testing.T) {
	region, err := shmpipe.NewRegion(32, 16).Create(make([]byte, 4096))
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	w := shmpipe.NewWriter(region)
	r := shmpipe.NewReader(region)

	const targetBytes = 256
	producer := NewProducer(w, targetBytes).WithTinyRecordRun(8)
	consumer := NewConsumer(r, targetBytes)

	done := make(chan struct{})
	go func() { producer.Run(); close(done) }()
	consumer.Run()
	<-done

	if consumer.Err() != nil {
		t.Fatalf("consumer: %v", consumer.Err())
	}
}
