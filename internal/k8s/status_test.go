package k8s

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	appsv1 "k8s.io/api/apps/v1"
	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	k8sfake "k8s.io/client-go/kubernetes/fake"
)

func int32Ptr(i int32) *int32 { return &i }

func testDeployment(desired, ready int32) *appsv1.Deployment {
	return &appsv1.Deployment{
		ObjectMeta: metav1.ObjectMeta{
			Name:      "app",
			Namespace: "default",
		},
		Spec: appsv1.DeploymentSpec{
			Replicas: int32Ptr(desired),
			Selector: &metav1.LabelSelector{
				MatchLabels: map[string]string{"app": "app"},
			},
			Template: corev1.PodTemplateSpec{
				Spec: corev1.PodSpec{
					Containers: []corev1.Container{
						{Name: "app", Image: "registry.example.com/app:run-42"},
					},
				},
			},
		},
		Status: appsv1.DeploymentStatus{
			ReadyReplicas: ready,
		},
	}
}

func testPod(name string, ready bool) *corev1.Pod {
	status := corev1.ConditionFalse
	if ready {
		status = corev1.ConditionTrue
	}
	return &corev1.Pod{
		ObjectMeta: metav1.ObjectMeta{
			Name:      name,
			Namespace: "default",
			Labels:    map[string]string{"app": "app"},
		},
		Status: corev1.PodStatus{
			Phase: corev1.PodRunning,
			Conditions: []corev1.PodCondition{
				{Type: corev1.PodReady, Status: status},
			},
		},
	}
}

func TestDeploymentStatus(t *testing.T) {
	t.Parallel()

	clientset := k8sfake.NewSimpleClientset(
		testDeployment(2, 2),
		testPod("app-1", true),
		testPod("app-2", true),
	)
	client := NewClientWithClientset(clientset)

	report, err := client.DeploymentStatus(context.Background(), "default", "app")
	require.NoError(t, err)

	assert.Equal(t, "app", report.Name)
	assert.Equal(t, "registry.example.com/app:run-42", report.Image)
	assert.Equal(t, int32(2), report.Desired)
	assert.Equal(t, int32(2), report.Ready)
	assert.True(t, report.Available())

	require.Len(t, report.Pods, 2)
	assert.True(t, report.Pods[0].Ready)
	assert.Equal(t, "Running", report.Pods[0].Phase)
}

func TestDeploymentStatus_PartialReadiness(t *testing.T) {
	t.Parallel()

	clientset := k8sfake.NewSimpleClientset(
		testDeployment(2, 1),
		testPod("app-1", true),
		testPod("app-2", false),
	)
	client := NewClientWithClientset(clientset)

	report, err := client.DeploymentStatus(context.Background(), "default", "app")
	require.NoError(t, err)

	assert.False(t, report.Available())
	require.Len(t, report.Pods, 2)
	assert.True(t, report.Pods[0].Ready)
	assert.False(t, report.Pods[1].Ready)
}

func TestDeploymentStatus_NotFound(t *testing.T) {
	t.Parallel()

	client := NewClientWithClientset(k8sfake.NewSimpleClientset())

	_, err := client.DeploymentStatus(context.Background(), "default", "missing")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to get deployment")
}

func TestWaitForDeploymentReady(t *testing.T) {
	t.Parallel()

	dep := testDeployment(2, 2)
	dep.Status.UpdatedReplicas = 2
	dep.Status.Replicas = 2
	dep.Status.AvailableReplicas = 2
	dep.Status.Conditions = []appsv1.DeploymentCondition{
		{Type: appsv1.DeploymentAvailable, Status: corev1.ConditionTrue},
	}
	client := NewClientWithClientset(k8sfake.NewSimpleClientset(dep))

	err := client.WaitForDeploymentReady(context.Background(), "default", "app", time.Second, time.Millisecond)
	assert.NoError(t, err)
}

func TestWaitForDeploymentReady_Timeout(t *testing.T) {
	t.Parallel()

	client := NewClientWithClientset(k8sfake.NewSimpleClientset(testDeployment(2, 1)))

	err := client.WaitForDeploymentReady(context.Background(), "default", "app", 20*time.Millisecond, time.Millisecond)
	assert.Error(t, err)
}

func TestIsDeploymentReady(t *testing.T) {
	t.Parallel()

	dep := testDeployment(2, 2)
	dep.Status.UpdatedReplicas = 2
	dep.Status.Replicas = 2
	dep.Status.AvailableReplicas = 2
	dep.Status.Conditions = []appsv1.DeploymentCondition{
		{Type: appsv1.DeploymentAvailable, Status: corev1.ConditionTrue},
	}
	assert.True(t, isDeploymentReady(dep))

	dep.Status.AvailableReplicas = 1
	assert.False(t, isDeploymentReady(dep))
}
