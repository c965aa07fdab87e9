package k8s

import (
	"context"
	"fmt"
	"time"

	appsv1 "k8s.io/api/apps/v1"
	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/util/wait"
)

// PodStatus is one pod backing a deployment.
type PodStatus struct {
	Name  string
	Phase string
	Ready bool
}

// DeploymentReport is the readiness summary for one deployment.
type DeploymentReport struct {
	Name      string
	Namespace string
	Image     string
	Desired   int32
	Ready     int32
	Pods      []PodStatus
}

// Available reports whether every desired replica is ready.
func (r *DeploymentReport) Available() bool {
	return r.Desired > 0 && r.Ready == r.Desired
}

// DeploymentStatus fetches the deployment and its pods and summarizes
// replica readiness.
func (c *Client) DeploymentStatus(ctx context.Context, namespace, name string) (*DeploymentReport, error) {
	deployment, err := c.clientset.AppsV1().Deployments(namespace).Get(ctx, name, metav1.GetOptions{})
	if err != nil {
		return nil, fmt.Errorf("failed to get deployment %s/%s: %w", namespace, name, err)
	}

	report := &DeploymentReport{
		Name:      deployment.Name,
		Namespace: deployment.Namespace,
		Ready:     deployment.Status.ReadyReplicas,
	}
	if deployment.Spec.Replicas != nil {
		report.Desired = *deployment.Spec.Replicas
	}
	if containers := deployment.Spec.Template.Spec.Containers; len(containers) > 0 {
		report.Image = containers[0].Image
	}

	selector, err := metav1.LabelSelectorAsSelector(deployment.Spec.Selector)
	if err != nil {
		return nil, fmt.Errorf("failed to build pod selector: %w", err)
	}

	podList, err := c.clientset.CoreV1().Pods(namespace).List(ctx, metav1.ListOptions{
		LabelSelector: selector.String(),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list pods: %w", err)
	}

	for i := range podList.Items {
		pod := &podList.Items[i]
		report.Pods = append(report.Pods, PodStatus{
			Name:  pod.Name,
			Phase: string(pod.Status.Phase),
			Ready: isPodReady(pod),
		})
	}

	return report, nil
}

// WaitForDeploymentReady polls until the deployment has all desired
// replicas available. A non-positive interval falls back to 5s.
func (c *Client) WaitForDeploymentReady(ctx context.Context, namespace, name string, timeout, interval time.Duration) error {
	if interval <= 0 {
		interval = 5 * time.Second
	}
	return wait.PollUntilContextTimeout(ctx, interval, timeout, true, func(ctx context.Context) (bool, error) {
		deployment, err := c.clientset.AppsV1().Deployments(namespace).Get(ctx, name, metav1.GetOptions{})
		if err != nil {
			return false, nil
		}
		return isDeploymentReady(deployment), nil
	})
}

func isDeploymentReady(deployment *appsv1.Deployment) bool {
	if deployment.Spec.Replicas == nil {
		return false
	}
	desired := *deployment.Spec.Replicas
	if deployment.Status.UpdatedReplicas != desired ||
		deployment.Status.Replicas != desired ||
		deployment.Status.AvailableReplicas != desired {
		return false
	}

	for _, condition := range deployment.Status.Conditions {
		if condition.Type == appsv1.DeploymentAvailable &&
			condition.Status == corev1.ConditionTrue {
			return true
		}
	}
	return false
}

func isPodReady(pod *corev1.Pod) bool {
	if pod.Status.Phase != corev1.PodRunning {
		return false
	}
	for _, condition := range pod.Status.Conditions {
		if condition.Type == corev1.PodReady &&
			condition.Status == corev1.ConditionTrue {
			return true
		}
	}
	return false
}
